// Package catalog collects the metadata descriptors a plugin declares and hands
// them to the host framework. Keys are unique per (objectType, objectSubtype)
// scope; registration runs in declaration order and stops at the first host
// error.
package catalog
