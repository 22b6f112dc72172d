// Package prompts holds the prompt templates sent to the generation
// provider. Templates live in an embedded YAML file and are rendered with
// text/template; a missing key in the data is an error rather than an empty
// interpolation.
package prompts
