// Package prompt compiles and renders prompt templates.
//
// Templates use Go text/template with the sprig function set. Bare variable
// names are accepted as shorthand for field access, so these are equivalent:
//
//	Write about {{ topic }} for {{ audience | lower }}.
//	Write about {{ .topic }} for {{ .audience | lower }}.
//
// [Compile] extracts the variables a template reads; [Template.Render]
// reports every missing one in a single [MissingVariableError].
//
// A [Library] holds named, contract-checked templates (see [DefaultLibrary]
// for the built-in course templates). A [Registry] loads prompt files with
// optional YAML front matter from a directory tree.
package prompt
