// Package config loads and validates workflow documents.
//
// A workflow is YAML (or JSON) with a name, optional defaults and an ordered
// list of steps:
//
//	name: course_outline
//	defaults:
//	  model: fast
//	steps:
//	  - name: outline
//	    type: prompt
//	    prompt: course/outline
//	    output_variable: outline
//	    output_format: json
//
// Each step map is overlaid on the defaults (step keys win, no deep merge),
// decoded into its variant struct and checked with struct tags. Every
// problem in the document is reported together in [ValidationErrors].
package config
