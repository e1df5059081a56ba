// Package submit decodes console form posts against command records and
// hands them to a Dispatcher.
package submit
