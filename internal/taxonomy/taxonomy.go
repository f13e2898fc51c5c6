// Package taxonomy holds the single closed mapping between document types and the
// categories they are grouped under. Every type belongs to exactly one category.
package taxonomy

import "hrdocs/internal/model"

const (
	CategoryIDProofs          model.Category = "ID Proofs"
	CategoryCertificates      model.Category = "Certificates"
	CategoryOfferLetters      model.Category = "Offer Letters"
	CategoryExperienceLetters model.Category = "Experience Letters"
	CategoryPhotos            model.Category = "Photos"
	CategoryBankDocuments     model.Category = "Bank Documents"
	CategoryOthers            model.Category = "Others"
)

type group struct {
	category model.Category
	types    []model.DocumentType
}

// groups is the source of truth; the lookup maps below are derived from it.
var groups = []group{
	{CategoryIDProofs, []model.DocumentType{model.TypeIDProof}},
	{CategoryCertificates, []model.DocumentType{model.TypeCertificate, model.TypeEducational}},
	{CategoryOfferLetters, []model.DocumentType{model.TypeOfferLetter}},
	{CategoryExperienceLetters, []model.DocumentType{model.TypeExperienceLetter}},
	{CategoryPhotos, []model.DocumentType{model.TypePhoto}},
	{CategoryBankDocuments, []model.DocumentType{model.TypeBankDocument}},
	{CategoryOthers, []model.DocumentType{model.TypeOther}},
}

var labels = map[model.DocumentType]string{
	model.TypeIDProof:          "ID Proof",
	model.TypeCertificate:      "Certificate",
	model.TypeOfferLetter:      "Offer Letter",
	model.TypePhoto:            "Photo",
	model.TypeBankDocument:     "Bank Document",
	model.TypeEducational:      "Educational Document",
	model.TypeExperienceLetter: "Experience Letter",
	model.TypeOther:            "Other",
}

var (
	categoryByType  = map[model.DocumentType]model.Category{}
	typesByCategory = map[model.Category][]model.DocumentType{}
)

func init() {
	for _, g := range groups {
		typesByCategory[g.category] = g.types
		for _, t := range g.types {
			categoryByType[t] = g.category
		}
	}
}

// Categories returns every known category in display order.
func Categories() []model.Category {
	out := make([]model.Category, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.category)
	}
	return out
}

// CategoryOf returns the category a type belongs to. Types outside the enumeration
// are reported under Others, matching how decode coerces them.
func CategoryOf(t model.DocumentType) model.Category {
	if c, ok := categoryByType[t]; ok {
		return c
	}
	return CategoryOthers
}

// TypesOf returns a copy of the types grouped under c, or nil for an unknown category.
func TypesOf(c model.Category) []model.DocumentType {
	types, ok := typesByCategory[c]
	if !ok {
		return nil
	}
	out := make([]model.DocumentType, len(types))
	copy(out, types)
	return out
}

// IsCategory reports whether c is a known category.
func IsCategory(c model.Category) bool {
	_, ok := typesByCategory[c]
	return ok
}

// LabelOf returns the display label for t, or the raw type string when none is registered.
func LabelOf(t model.DocumentType) string {
	if l, ok := labels[t]; ok {
		return l
	}
	return string(t)
}
