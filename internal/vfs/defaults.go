package vfs

import "fmt"

// DefaultTree builds the tree seeded for sessions that start without a
// restored checkpoint. Static data only.
func DefaultTree(username string) *Node {
	readme := NewFile("Welcome to TermOS.\n\n" +
		"This is an in-memory Unix-like environment. Try:\n" +
		"  ls -la\n" +
		"  tree\n" +
		"  cat notes.txt\n" +
		"  vi notes.txt\n")

	notes := NewFile("- finish the project report\n- water the plants\n")

	profile := NewFile("export PS1='\\u@termos:\\w\\$ '\n")

	hello := NewFile("package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n")

	projects := NewDirectory()
	projects.Put("hello.go", hello)

	docs := NewDirectory()
	docs.Put("todo.md", NewFile("# TODO\n\n- [ ] everything\n"))

	home := NewDirectory()
	home.Put("README.md", readme)
	home.Put("notes.txt", notes)
	home.Put(".profile", profile)
	home.Put("projects", projects)
	home.Put("documents", docs)

	homes := NewDirectory()
	homes.Put(username, home)

	rootHome := NewDirectory()
	rootHome.Put(".profile", NewFile("export PS1='\\u@termos:\\w# '\n"))

	etc := NewDirectory()
	etc.Put("hostname", NewFile("termos\n"))
	etc.Put("passwd", NewFile(fmt.Sprintf(
		"root:x:0:0:root:/root:/bin/sh\n%s:x:1000:1000:%s:/home/%s:/bin/sh\n",
		username, username, username)))

	bin := NewDirectory()
	for _, name := range []string{"ls", "cat", "sh", "vi"} {
		bin.Put(name, NewFile(""))
	}
	usr := NewDirectory()
	usr.Put("bin", bin)

	root := NewDirectory()
	root.Put("home", homes)
	root.Put("root", rootHome)
	root.Put("etc", etc)
	root.Put("usr", usr)
	root.Put("tmp", NewDirectory())
	return root
}
