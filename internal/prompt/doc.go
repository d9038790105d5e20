// Package prompt drives the interactive declaration wizard used by the
// metafields CLI. Terminal input goes through survey; tests substitute a
// scripted Driver.
package prompt
