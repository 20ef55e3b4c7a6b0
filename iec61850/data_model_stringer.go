package iec61850

import "strings"

// Pretty Stringers with indentation starting at top node "DataModel"

// indent returns a string with two-space indentation repeated level times.
func indent(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat("  ", level)
}

// DataModel stringer prints the full hierarchical data model.
func (dm DataModel) String() string {
	var b strings.Builder
	b.WriteString("DataModel\n")
	for _, ld := range dm.LDs {
		ld.writeTo(&b, 1)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (ld LD) String() string {
	var b strings.Builder
	ld.writeTo(&b, 0)
	return strings.TrimRight(b.String(), "\n")
}

func (ld LD) writeTo(b *strings.Builder, level int) {
	b.WriteString(indent(level) + "LD: " + ld.Data + "\n")
	for _, ln := range ld.LNs {
		ln.writeTo(b, level+1)
	}
}

func (ln LN) String() string {
	var b strings.Builder
	ln.writeTo(&b, 0)
	return strings.TrimRight(b.String(), "\n")
}

func (ln LN) writeTo(b *strings.Builder, level int) {
	b.WriteString(indent(level) + "LN: " + ln.Data + "\n")
	for _, d := range ln.DOs {
		d.writeTo(b, level+1)
	}
}

func (d DO) String() string {
	var b strings.Builder
	d.writeTo(&b, 0)
	return strings.TrimRight(b.String(), "\n")
}

func (d DO) writeTo(b *strings.Builder, level int) {
	b.WriteString(indent(level) + "DO: " + d.Data + "\n")
	for _, sub := range d.DOs {
		sub.writeTo(b, level+1)
	}
	for _, da := range d.DAs {
		da.writeTo(b, level+1)
	}
}

func (da DA) String() string {
	var b strings.Builder
	da.writeTo(&b, 0)
	return strings.TrimRight(b.String(), "\n")
}

func (da DA) writeTo(b *strings.Builder, level int) {
	b.WriteString(indent(level) + "DA: " + da.Data + " [" + da.FC.String() + "]")
	if da.HasValue {
		b.WriteString(" " + da.Type.String())
	}
	b.WriteString("\n")
	for _, child := range da.DAs {
		child.writeTo(b, level+1)
	}
}
