package iec61850

// DataModel is the hierarchy served by an IedModel.
type DataModel struct {
	LDs []LD
}

// LD is a Logical Device
type LD struct {
	Data string
	LNs  []LN
}

// LN is a Logical Node
type LN struct {
	Data string
	Ref  string
	DOs  []DO
}

// DO represents a Data Object. Composite data objects carry sub data objects.
type DO struct {
	Data string
	Ref  string
	DOs  []DO
	DAs  []DA
}

// DA represents a Data Attribute
type DA struct {
	Data string
	Ref  string
	FC   FC
	// Type is only meaningful when HasValue is set; constructed attributes
	// have no value of their own.
	Type     MmsType
	HasValue bool
	DAs      []DA
}

// Find returns the data attribute with the given reference.
func (dm DataModel) Find(ref string) (DA, bool) {
	for _, ld := range dm.LDs {
		for _, ln := range ld.LNs {
			for _, do := range ln.DOs {
				if da, ok := do.find(ref); ok {
					return da, true
				}
			}
		}
	}
	return DA{}, false
}

func (do DO) find(ref string) (DA, bool) {
	for _, sub := range do.DOs {
		if da, ok := sub.find(ref); ok {
			return da, true
		}
	}
	for _, da := range do.DAs {
		if found, ok := da.find(ref); ok {
			return found, true
		}
	}
	return DA{}, false
}

func (da DA) find(ref string) (DA, bool) {
	if da.Ref == ref {
		return da, true
	}
	for _, sub := range da.DAs {
		if found, ok := sub.find(ref); ok {
			return found, true
		}
	}
	return DA{}, false
}
