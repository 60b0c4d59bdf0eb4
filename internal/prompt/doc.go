// Package prompt assembles the instruction text sent to the generation
// provider. The default template is embedded in the binary; a replacement can
// be loaded from disk as long as it keeps exactly one {{.BusinessDescription}}
// slot.
package prompt
