// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classes

import "github.com/Courage-7/DocumentScrapper/pkg/types"

// Chains shared by the built-in classes. Image-based classes carry no
// keyword rule because their artifacts have no extractable text.
var (
	textChain = []types.ValidatorSpec{
		{Kind: "size"},
		{Kind: "keywords"},
		{Kind: "filetype"},
	}
	imageChain = []types.ValidatorSpec{
		{Kind: "size"},
		{Kind: "filetype"},
	}
)

// Builtin returns the registry of shipped document classes.
func Builtin() *Registry {
	reg := &Registry{classes: make(map[string]types.DocumentClass)}
	for _, c := range builtinClasses {
		reg.classes[c.ID] = c
	}
	return reg
}

var builtinClasses = []types.DocumentClass{
	{
		ID:       "commercial_register",
		Name:     "Commercial Register",
		Category: "company",
		SearchPatterns: []string{
			"commercial register document sample filetype:pdf",
			"business registry document filetype:pdf",
			"company register extract sample filetype:pdf",
			"commercial register certificate template filetype:pdf",
		},
		AcceptedFileTypes: []string{"pdf", "doc", "docx"},
		Keywords: []string{
			"commercial register", "business registry", "company registration",
			"register extract", "registration number", "commercial court",
		},
		ValidatorChain: textChain,
		Limit:          10,
	},
	{
		ID:       "articles_of_association",
		Name:     "Articles of Association",
		Category: "company",
		SearchPatterns: []string{
			"articles of association template filetype:pdf",
			"company articles of association sample filetype:pdf",
			"corporate bylaws sample document filetype:pdf",
			"company constitution document example filetype:pdf",
		},
		AcceptedFileTypes: []string{"pdf", "doc", "docx"},
		Keywords: []string{
			"articles of association", "bylaws", "company constitution",
			"corporate governance", "shareholders", "board of directors",
		},
		ValidatorChain: textChain,
		Limit:          10,
	},
	{
		ID:       "incorporation",
		Name:     "Incorporation",
		Category: "company",
		SearchPatterns: []string{
			"certificate of incorporation sample filetype:pdf",
			"incorporation document template filetype:pdf",
			"company incorporation certificate filetype:pdf",
			"business incorporation document sample filetype:pdf",
		},
		AcceptedFileTypes: []string{"pdf", "doc", "docx"},
		Keywords: []string{
			"certificate of incorporation", "incorporated", "company formation",
			"registration date", "company number", "corporate identity",
		},
		ValidatorChain: textChain,
		Limit:          10,
	},
	{
		ID:       "passport",
		Name:     "Passport",
		Category: "individual",
		SearchPatterns: []string{
			"passport sample template filetype:pdf",
			"blank passport document example filetype:jpg",
			"passport specimen filetype:pdf",
			"sample passport document filetype:png",
		},
		AcceptedFileTypes: []string{"pdf", "jpg", "png"},
		Keywords: []string{
			"passport", "travel document", "identification", "nationality",
			"date of issue", "date of expiry", "bearer",
		},
		ValidatorChain: imageChain,
		Limit:          10,
	},
	{
		ID:       "id",
		Name:     "ID",
		Category: "individual",
		SearchPatterns: []string{
			"national ID card sample filetype:pdf",
			"identity card template example filetype:jpg",
			"ID document specimen filetype:pdf",
			"government issued ID sample filetype:png",
		},
		AcceptedFileTypes: []string{"pdf", "jpg", "png"},
		Keywords: []string{
			"identity card", "identification", "national ID", "personal number",
			"date of issue", "date of expiry", "government issued",
		},
		ValidatorChain: imageChain,
		Limit:          10,
	},
	{
		ID:       "utility_bill",
		Name:     "Utility Bill",
		Category: "individual",
		SearchPatterns: []string{
			"utility bill sample template filetype:pdf",
			"electricity bill example document filetype:pdf",
			"water bill sample document filetype:pdf",
			"gas bill template example filetype:pdf",
		},
		AcceptedFileTypes: []string{"pdf", "doc", "docx"},
		Keywords: []string{
			"utility bill", "electricity", "water", "gas", "service address",
			"account number", "billing period", "payment due",
		},
		ValidatorChain: textChain,
		Limit:          10,
	},
}
