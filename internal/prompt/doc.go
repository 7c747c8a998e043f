// Package prompt asks the user to pick a rule, pick a field value, or
// confirm a rename. Prompts are bubbletea programs; callers depend on the
// Prompter interface so tests can script answers.
package prompt
