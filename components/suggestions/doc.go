// Package suggestions serves the completion values offered by list fields
// (the datalist behind app_list) as a searchable JSON endpoint, and exposes
// the same matching for terminal prompts.
package suggestions
