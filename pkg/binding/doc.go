// Package binding resolves the values a template render sees. It merges
// shape-derived bindings, value files, and caller-supplied values into a
// template context, computing composite strings (such as the struct
// field block) that the template language itself cannot assemble.
package binding
