// Package schema holds the command schema records that drive the node console
// forms. A Record is an ordered list of fields for one (command, operation)
// pair; each field carries a Descriptor made of a placeholder and a widget
// Kind. Records are looked up through a Registry, which ships with the
// built-in console table and can be extended with YAML/JSON overlays.
package schema
