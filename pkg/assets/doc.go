// Package assets resolves the admin script and stylesheet URLs produced by the
// Vite frontend build. In production it reads the build manifest; when the
// dev server has written its hot file the entries point at the dev server.
package assets
