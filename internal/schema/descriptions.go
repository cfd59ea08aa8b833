// Package schema holds the human-facing descriptions of the extraction
// schema, keyed by dotted field path. These drive the field-by-field view
// in the UI; they describe the schema, not any particular document.
package schema

import "sort"

// FieldDescriptions maps a dotted path within the extraction record to a
// fixed description of that field.
var FieldDescriptions = map[string]string{
	"patent_info":                           "Basic bibliographic information of the patent: publication number, filing date, inventors, and so on.",
	"patent_info.publication_number":        "The unique publication number of the patent document (e.g., 'EP 3 968 410 A1', '10-2024-0011099 A').",
	"patent_info.publication_date":          "The date the patent was officially published (YYYY-MM-DD preferred).",
	"patent_info.application_number":        "The number of the application filed with the patent office.",
	"patent_info.filing_date":               "The date the application was filed.",
	"patent_info.priority_data":             "Priority claims against earlier applications. Each entry holds a priority number, date, and country.",
	"patent_info.applicants":                "The person(s) or legal entit(ies) that filed the patent.",
	"patent_info.inventors":                 "The individual(s) who made the invention.",
	"patent_info.title_original_language":   "The title of the invention exactly as written in its original language.",
	"patent_info.title_english_translation": "The English translation of the title; identical to the original when the document is in English.",

	"material_description":                             "Description of the core material the patent covers.",
	"material_description.application_focus":           "The material's main application or purpose (e.g., 'Positive electrode material for sodium-ion battery').",
	"material_description.material_system_type":        "General classification of the material (e.g., 'Sodium Halophosphate-Carbon Composite', 'Layered Oxide').",
	"material_description.chemical_formula_general":    "The most representative general chemical formula presented (e.g., 'Na2M1hM2k(PO4)X/C').",
	"material_description.formula_parameters":          "Explanations of the variables used in the general formula (M1, h, X, ...), including involved elements and value ranges.",
	"material_description.key_additive_or_dopant_info": "Key additives or dopants: type, chemical identity, role, and content.",

	"morphology_structure":                                 "Morphological and structural features of the material.",
	"morphology_structure.particle_form_summary":           "Overall description of the particle nature.",
	"morphology_structure.primary_particle_shape_observed": "Observed dominant particle shape(s) (e.g., 'flake', 'spherical').",
	"morphology_structure.size_metrics":                    "Size-related metrics such as particle size or grain size, with unit and range.",
	"morphology_structure.specific_surface_area_BET_m2_g":  "BET specific surface area (m²/g) value or range.",
	"morphology_structure.density_g_cm3":                   "Densities (g/cm³) under various conditions: tap density, compacted density, and so on.",
	"morphology_structure.crystallinity_features":          "Crystallinity features such as XRD peak data and crystal structure type.",
	"morphology_structure.coating_information":             "Whether the material is coated, the coating material, and its purpose.",

	"physical_chemical_properties_specific": "Specific physical and chemical properties mentioned, with name, unit, value, and measurement conditions.",

	"preparation_method_summary":                                     "Summary of the overall synthesis route and its key step-by-step conditions.",
	"preparation_method_summary.overall_synthesis_route_description": "Brief overview of the preparation method.",
	"preparation_method_summary.key_steps_and_conditions":            "The main preparation steps with their parameters (temperature, duration, ...).",
	"preparation_method_summary.raw_material_examples_by_type":       "Example source materials grouped by element or role.",

	"application_details":                                      "The invention's main application field, its role as a component, and potential end uses.",
	"application_details.primary_application_field":            "The primary technology field the invention belongs to (e.g., 'Sodium-ion battery technology').",
	"application_details.specific_component_role":              "The role the invention plays within a system (e.g., 'Positive electrode active material').",
	"application_details.potential_end_use_devices_or_systems": "Example end products or systems the invention may be applied to.",

	"key_claimed_advantages_or_problems_solved_by_invention":   "Problems the invention solves, improvements over prior art, and the main claimed advantages.",
	"representative_performance_data_from_examples_or_figures": "Concrete performance metrics taken from examples, tables, or figures.",

	"document_summary_for_user": "A 3-5 sentence model-generated summary of the patent's main points.",
	"language_of_document":      "The primary language of the patent document (e.g., 'English', 'Korean').",
	"source_file_name":          "The original name of the analyzed PDF file.",
}

// Paths returns every described field path in sorted order.
func Paths() []string {
	paths := make([]string, 0, len(FieldDescriptions))
	for p := range FieldDescriptions {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
