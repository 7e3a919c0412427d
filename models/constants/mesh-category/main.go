package meshCategory

import (
	"genelit/api/models/constants"
	"strings"
)

const Unknown constants.MeshCategory = "Unknown"

// top-level MeSH tree branches for diseases
var categories = map[string]constants.MeshCategory{
	"C01": "Bacterial Infections and Mycoses",
	"C02": "Virus Diseases",
	"C03": "Parasitic Diseases",
	"C04": "Neoplasms",
	"C05": "Musculoskeletal Diseases",
	"C06": "Digestive System Diseases",
	"C07": "Stomatognathic Diseases",
	"C08": "Respiratory Tract Diseases",
	"C09": "Otorhinolaryngologic Diseases",
	"C10": "Nervous System Diseases",
	"C11": "Eye Diseases",
	"C12": "Male Urogenital Diseases",
	"C13": "Female Urogenital Diseases and Pregnancy Complications",
	"C14": "Cardiovascular Diseases",
	"C15": "Hemic and Lymphatic Diseases",
	"C16": "Congenital, Hereditary, and Neonatal Diseases and Abnormalities",
	"C17": "Skin and Connective Tissue Diseases",
	"C18": "Nutritional and Metabolic Diseases",
	"C19": "Endocrine System Diseases",
	"C20": "Immunologic Diseases",
	"C21": "Disorders of Environmental Origin",
	"C22": "Animal Diseases",
	"C23": "Pathological Conditions, Signs and Symptoms",
	"C24": "Occupational Diseases",
	"C25": "Chemically-Induced Disorders",
	"C26": "Wounds and Injuries",
	"F03": "Mental Disorders",
}

// FromTreeNumbers returns the category of the first tree number
// (e.g. "C04.588.180") whose branch is a known disease branch.
func FromTreeNumbers(treeNumbers []string) constants.MeshCategory {
	for _, tn := range treeNumbers {
		tn = strings.TrimSpace(tn)
		if len(tn) < 3 {
			continue
		}
		if category, ok := categories[strings.ToUpper(tn[:3])]; ok {
			return category
		}
	}
	return Unknown
}
