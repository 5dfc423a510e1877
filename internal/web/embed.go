package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var files embed.FS

// Templates is the template tree rooted at templates/, so paths read as
// "pages/login.html" and "layouts/base.html".
var Templates = mustSub(files, "templates")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
