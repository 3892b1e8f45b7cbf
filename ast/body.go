package ast

// Blocks returns every direct Block statement in the body, optionally
// filtered to a single block type ("" matches any type).
func (b Body) Blocks(blockType string) []*Block {
	var out []*Block
	for _, stmt := range b {
		if blk, ok := stmt.(*Block); ok {
			if blockType == "" || blk.Type.Name == blockType {
				out = append(out, blk)
			}
		}
	}
	return out
}

// Attributes returns every direct Attribute statement in the body,
// keyed by name.
func (b Body) Attributes() map[string]*Attribute {
	out := make(map[string]*Attribute)
	for _, stmt := range b {
		if attr, ok := stmt.(*Attribute); ok {
			out[attr.Key.Name] = attr
		}
	}
	return out
}
