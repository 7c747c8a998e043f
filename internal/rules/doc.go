// Package rules turns raw rule tables from the configuration into validated,
// immutable Rule values. Conditions are bound to the field parser their
// MeowURI selects; data sources that reference unknown fields or URIs are
// dropped with a warning while the rule itself stays usable.
package rules
