// Package output renders command results for ipadmin-cli.
//
// Table output is meant for people: columns are aligned with tabwriter,
// fields tagged `table:"wide"` appear only with --wide, and empty values
// print as "-". JSON and YAML output use the API field names and are meant
// for scripts. YAML is produced with gopkg.in/yaml.v3.
//
// Spinner animates on a terminal only, so piped output stays clean.
package output
