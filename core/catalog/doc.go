// Package catalog holds the fault template catalog: the set of scripted
// failures the trainer can inject into the sandbox. The FileCatalog
// implementation reads templates from a YAML file and supports random or
// sequential selection plus hot reload while the service is running.
package catalog
