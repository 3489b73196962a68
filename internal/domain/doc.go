// Package domain contains the core model of the web form suite.
//
// The domain is engine- and persistence-agnostic: it does not depend on YAML parsing,
// browser automation libraries, or the filesystem. Infra/adapters map into/from these types.
package domain
