// Package confloader provides configuration loading mechanism.
//
// Sources are layered with koanf, highest priority first:
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables (IPADMIN_*)
//  3. A .env file in the working directory
//  4. The YAML configuration file
//  5. Defaults already present in the target struct
//
// Watcher reports changes to the configuration file so interactive
// sessions can reload it.
package confloader
