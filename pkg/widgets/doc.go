// Package widgets infers the input widget an editor or settings frontend
// should render for a metadata field. Resolution is priority ordered: an
// explicit input type always wins, then choice options select a "select"
// widget, then the storage type picks text, number, checkbox or tags.
package widgets
