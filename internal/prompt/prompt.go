// Package prompt assembles the extraction prompt sent to the model: a
// fixed schema-and-instructions template, a directive pinning the output
// filename, the document text inside delimiter markers, and a closing
// directive asking for a fenced JSON object.
//
// The whole document text goes into a single prompt. Nothing is truncated
// or chunked, so a very large patent can exceed the model's input limit;
// that surfaces as an invocation failure rather than being hidden here.
package prompt

import "fmt"

const (
	beginMarker = "--- BEGIN PATENT TEXT ---"
	endMarker   = "--- END PATENT TEXT ---"
)

// Build returns the full prompt for one extraction request. filename is
// the exact value the model must emit for source_file_name.
func Build(fullText, filename string) string {
	return schemaTemplate +
		"\n\nIMPORTANT INSTRUCTIONS FOR THIS SPECIFIC TASK:\n" +
		fmt.Sprintf("- The 'source_file_name' field in the JSON output MUST be exactly: %q\n", filename) +
		"Here is the full patent text to analyze:\n\n" + beginMarker + "\n" +
		fullText +
		"\n" + endMarker + "\n\n" +
		"Based on the schema and instructions provided above, generate a response containing " +
		"the JSON object. The JSON object should be enclosed in ```json ... ```."
}

const schemaTemplate = `
You are an expert in chemistry and material science patent analysis.
Given the full text of a patent document (provided below), extract the specified information
and structure it as a JSON object. Populate all fields as accurately and completely as possible
based ONLY on the provided text. If information for a field is not found, use null or an
empty string/list as appropriate for that field type.

IMPORTANT DATA FORMATTING INSTRUCTIONS:

1.  Language for Extracted Values:
    * All extracted textual values (strings) MUST be in English, unless specified otherwise below.
    * Exceptions: 'title_original_language' keeps the original language; names of people and
      companies use the most common English representation when available, otherwise the
      original name with a Romanized version in parentheses; untranslatable proper nouns stay as-is.

2.  Chemical Terminology:
    * For all chemical formulas, element names, or lists of chemical elements, YOU MUST USE
      standard English chemical symbols (e.g., 'Fe', 'NaCl', 'H2O', ['Ti', 'V', 'Al']).

3.  Date Format:
    * All dates MUST be formatted 'YYYY-MM-DD'. If only partial information is available,
      fit it as best as possible; if conversion is impossible, provide the date as written.

4.  Units, Conditions, Ranges:
    * Use SI units or units commonly accepted in the field (e.g., 'mAh/g', 'S/cm', '°C', 'wt%').
    * For numerical ranges, clearly specify 'X to Y', 'X-Y', '>=X', '<=Y'; capture preferred
      values alongside ranges when both are given.

5.  General Field Population:
    * Prefer null for absent optional fields and an empty list [] for absent list fields.

The 'language_of_document' should be the primary language identified in the text
(e.g., 'English', 'Korean', 'Japanese', 'Chinese').
The 'source_file_name' will be provided to you and should be included in the JSON output.
The 'document_summary_for_user' field should contain a concise 3-5 sentence general summary
of the patent's main points, in English, focusing on the invention's purpose, key
materials/methods, and primary advantages.

The desired JSON output structure is as follows:

{
    "patent_info": {
        "publication_number": "string (e.g., 'EP 3 968 410 A1', 'US 11,000,000 B2')",
        "publication_date": "string (MUST be 'YYYY-MM-DD')",
        "application_number": "string",
        "filing_date": "string (MUST be 'YYYY-MM-DD')",
        "priority_data": [
            {
                "priority_number": "string",
                "priority_date": "string (MUST be 'YYYY-MM-DD')",
                "priority_country": "string (2-letter ISO country code; 'WO' for WIPO)"
            }
        ],
        "applicants": ["string (all applicants, English names when available)"],
        "inventors": ["string (all inventors, e.g., 'LASTNAME, Firstname')"],
        "title_original_language": "string (the full title in its original language)",
        "title_english_translation": "string (English translation, or the same if already English)"
    },
    "material_description": {
        "application_focus": "string (main application or purpose of the material)",
        "material_system_type": "string (general classification, e.g., 'Layered Oxide (O3-type)')",
        "chemical_formula_general": "string (the most representative general formula)",
        "formula_parameters": [
            {
                "parameter_name": "string (variable/symbol in the formula)",
                "elements_involved": ["string (standard chemical symbols only)"],
                "value_range": "string (e.g., '0 <= x <= 1')",
                "preferred_value_range": "string (narrower range if specified)",
                "description": "string (brief explanation of the parameter)"
            }
        ],
        "key_additive_or_dopant_info": [
            {
                "type_or_name": "string (e.g., 'Carbon coating', 'M element doping')",
                "chemical_identity": "string (formula or symbol, e.g., 'Al2O3', 'PVDF')",
                "role_or_purpose": "string (e.g., 'Improve conductivity')",
                "content_description": "string (amount or concentration including units)",
                "source_materials_if_specified": ["string (precursor materials if given)"]
            }
        ]
    },
    "morphology_structure": {
        "particle_form_summary": "string (overall description of the particle nature)",
        "primary_particle_shape_observed": ["string (e.g., 'spherical', 'platelet', 'rod-like')"],
        "size_metrics": [
            {"metric_type": "string", "unit": "string", "value_range": "string", "preferred_value_range": "string"}
        ],
        "specific_surface_area_BET_m2_g": {"value_range": "string", "preferred_value_range": "string"},
        "density_g_cm3": [
            {"type": "string (e.g., 'tap density')", "value_range": "string", "conditions": "string", "preferred_value_range": "string"}
        ],
        "crystallinity_features": [
            {"feature_type": "string (e.g., 'XRD Peak Position (2-theta)')", "details": "string"}
        ],
        "coating_information": {
            "is_coated": "boolean",
            "coating_material": "string (standard symbols/formulas)",
            "coating_thickness": "string (including units)",
            "coating_purpose": "string",
            "coating_method_if_specified": "string"
        }
    },
    "physical_chemical_properties_specific": [
        {"property_name": "string", "unit": "string", "value_or_range": "string",
         "conditions_of_measurement": "string", "preferred_value_or_range": "string"}
    ],
    "preparation_method_summary": {
        "overall_synthesis_route_description": "string (brief overview of the method)",
        "key_steps_and_conditions": [
            {
                "step_id": "integer or string",
                "process_name": "string (e.g., 'Mixing', 'Calcination')",
                "detailed_description_of_step": "string",
                "key_parameters_and_values": [
                    {"parameter_name": "string", "value_or_range": "string", "unit": "string"}
                ]
            }
        ],
        "raw_material_examples_by_type": {
            "sodium_source_examples": ["string (standard formulas, e.g., 'Na2CO3')"],
            "lithium_source_examples": ["string"],
            "transition_metal_source_examples": ["string"],
            "phosphate_source_examples": ["string"],
            "halogen_source_examples": ["string"],
            "carbon_source_for_coating_examples": ["string"],
            "dopant_M_source_examples": ["string"],
            "other_precursor_examples": ["string"]
        }
    },
    "application_details": {
        "primary_application_field": "string (e.g., 'Sodium-ion battery technology')",
        "specific_component_role": "string (e.g., 'Positive electrode active material')",
        "potential_end_use_devices_or_systems": ["string (e.g., 'electric vehicle (EV)')"]
    },
    "key_claimed_advantages_or_problems_solved_by_invention": [
        "string (main advantages, improvements over prior art, or problems solved)"
    ],
    "representative_performance_data_from_examples_or_figures": [
        {"metric_name": "string", "value": "string or number", "unit": "string",
         "conditions_or_context": "string", "source_reference_in_document": "string"}
    ],
    "document_summary_for_user": "string (concise 3-5 sentence English summary)",
    "language_of_document": "string (e.g., 'English', 'Korean', 'Japanese', 'Chinese')",
    "source_file_name": "string (the PDF filename provided to you)"
}`
