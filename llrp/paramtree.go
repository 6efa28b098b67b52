package llrp

import (
	"bytes"
	"encoding/binary"
)

// paramNode is one node of a parameter tree to be TLV-encoded. write, if
// non-nil, emits the node's fixed fields; children are encoded after.
// This is the Go-native form of the closures the original client used to
// build each request's nested-parameter tree (spec.md §9).
type paramNode struct {
	typ      ParameterType
	write    func(buf *bytes.Buffer)
	children []*paramNode
}

// encodeParamTree appends root's TLV encoding (type, length, fixed fields,
// then each child recursively) to buf. The length field is back-patched
// after the subtree is fully emitted, per spec.md §4.1: "at entry,
// remember the buffer offset, write type and a placeholder 2-byte length,
// write fixed fields, recurse into children, then overwrite the
// placeholder with buf_offset_now - start."
func encodeParamTree(root *paramNode, buf *bytes.Buffer) {
	start := buf.Len()

	var typeAndLen [4]byte
	binary.BigEndian.PutUint16(typeAndLen[0:2], uint16(root.typ))
	buf.Write(typeAndLen[:]) // length placeholder is typeAndLen[2:4], zeroed

	if root.write != nil {
		root.write(buf)
	}
	for _, child := range root.children {
		encodeParamTree(child, buf)
	}

	total := buf.Len() - start
	out := buf.Bytes()
	binary.BigEndian.PutUint16(out[start+2:start+4], uint16(total))
}

// encodeParamTrees encodes a flat sequence of sibling parameter trees.
func encodeParamTrees(roots []*paramNode) []byte {
	var buf bytes.Buffer
	for _, r := range roots {
		encodeParamTree(r, &buf)
	}
	return buf.Bytes()
}
