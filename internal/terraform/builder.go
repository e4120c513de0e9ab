package terraform

import (
	"bytes"
	"fmt"

	"github.com/tfcanvas/canvas/internal/result"
)

// fileSet accumulates the generated files of one export. Resource blocks are
// kept in the order they were added, which is dependency order.
type fileSet struct {
	header    string
	blocks    [][]byte
	addrs     []Address
	generated map[string][]byte
}

func newFileSet(diagramName string) *fileSet {
	header := "# Generated by canvas."
	if diagramName != "" {
		header = fmt.Sprintf("# Generated by canvas from %q.", diagramName)
	}
	return &fileSet{header: header, generated: make(map[string][]byte)}
}

// addResource records a rendered block for addr. Empty blocks are ignored and
// the address is not exported.
func (fs *fileSet) addResource(addr Address, block []byte) {
	if len(block) == 0 {
		return
	}
	fs.blocks = append(fs.blocks, block)
	fs.addrs = append(fs.addrs, addr)
}

// exported returns the addresses of every added resource.
func (fs *fileSet) exported() []Address { return fs.addrs }

// put stores a whole generated file; empty content drops the file.
func (fs *fileSet) put(name string, content []byte) {
	if len(content) == 0 {
		delete(fs.generated, name)
		return
	}
	fs.generated[name] = content
}

// files returns every generated file by name. main.tf is only present when
// at least one resource was added.
func (fs *fileSet) files() map[string][]byte {
	out := make(map[string][]byte, len(fs.generated)+1)
	for name, content := range fs.generated {
		out[name] = content
	}
	if len(fs.blocks) == 0 {
		return out
	}
	var main bytes.Buffer
	main.WriteString(fs.header)
	main.WriteString("\n\n")
	main.Write(bytes.Join(fs.blocks, []byte("\n")))
	out[result.FileMain] = main.Bytes()
	return out
}
