// Package emit delivers generated units to their destination. The file
// sink writes atomically and runs Go source through the imports
// formatter; the writer sink streams units for preview.
package emit
