package iec61850

// #include <stdlib.h>
// #include <iec61850_server.h>
// #include <iec61850_config_file_parser.h>
import "C"

import (
	"fmt"
	"os"
	"unsafe"
)

// IedModel is a data model loaded from a libiec61850 model config file
// (the output of the SCL genconfig tool).
type IedModel struct {
	model *C.IedModel
}

// ModelNode is a node of an IedModel: logical device, logical node, data
// object or data attribute. It is owned by the model.
type ModelNode struct {
	node *C.ModelNode
}

// CreateModelFromConfigFileEx parses a model config file.
func CreateModelFromConfigFileEx(filename string) (*IedModel, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("model config %q: %w", filename, err)
	}
	cName := C.CString(filename)
	defer C.free(unsafe.Pointer(cName))

	model := C.ConfigFileParser_createModelFromConfigFileEx(cName)
	if model == nil {
		return nil, fmt.Errorf("failed to parse model config %q", filename)
	}
	return &IedModel{model: model}, nil
}

// Destroy releases the model. It must outlive every server created from it.
func (m *IedModel) Destroy() {
	if m == nil || m.model == nil {
		return
	}
	C.IedModel_destroy(m.model)
	m.model = nil
}

// GetModelNodeByObjectReference looks up a node like
// "simpleIOGenericIO/GGIO1.AnIn1.mag.f". It returns nil when no such node exists.
func (m *IedModel) GetModelNodeByObjectReference(objectReference string) *ModelNode {
	cRef := C.CString(objectReference)
	defer C.free(unsafe.Pointer(cRef))

	node := C.IedModel_getModelNodeByObjectReference(m.model, cRef)
	if node == nil {
		return nil
	}
	return &ModelNode{node: node}
}

// Name returns the node name without its parents.
func (n *ModelNode) Name() string {
	return C2GoStr(C.ModelNode_getName(n.node))
}

// IsDataAttribute reports whether values can be written to the node.
func (n *ModelNode) IsDataAttribute() bool {
	return C.ModelNode_getType(n.node) == C.DataAttributeModelType
}

func (n *ModelNode) dataAttribute() *C.DataAttribute {
	return (*C.DataAttribute)(unsafe.Pointer(n.node))
}

// children returns the direct children of the node in model order.
func (n *ModelNode) children() []*ModelNode {
	list := C.ModelNode_getChildren(n.node)
	if list == nil {
		return nil
	}
	// the list does not own its elements
	defer C.LinkedList_destroyStatic(list)

	var out []*ModelNode
	it := list.next
	for it != nil {
		if it.data != nil {
			out = append(out, &ModelNode{node: (*C.ModelNode)(it.data)})
		}
		it = it.next
	}
	return out
}

// DataModel walks the model and returns its LD/LN/DO/DA hierarchy.
func (m *IedModel) DataModel() DataModel {
	var dm DataModel
	count := int(C.IedModel_getLogicalDeviceCount(m.model))
	for i := 0; i < count; i++ {
		device := C.IedModel_getDeviceByIndex(m.model, C.int(i))
		if device == nil {
			continue
		}
		ldNode := &ModelNode{node: (*C.ModelNode)(unsafe.Pointer(device))}

		ld := LD{Data: ldNode.Name()}
		for _, lnNode := range ldNode.children() {
			ln := LN{Data: lnNode.Name()}
			ln.Ref = fmt.Sprintf("%s/%s", ld.Data, ln.Data)
			for _, doNode := range lnNode.children() {
				ln.DOs = append(ln.DOs, dataObjectOf(doNode, ln.Ref))
			}
			ld.LNs = append(ld.LNs, ln)
		}
		dm.LDs = append(dm.LDs, ld)
	}
	return dm
}

func dataObjectOf(n *ModelNode, parentRef string) DO {
	do := DO{Data: n.Name()}
	do.Ref = fmt.Sprintf("%s.%s", parentRef, do.Data)
	for _, child := range n.children() {
		switch C.ModelNode_getType(child.node) {
		case C.DataObjectModelType:
			do.DOs = append(do.DOs, dataObjectOf(child, do.Ref))
		case C.DataAttributeModelType:
			do.DAs = append(do.DAs, dataAttributeOf(child, do.Ref))
		}
	}
	return do
}

func dataAttributeOf(n *ModelNode, parentRef string) DA {
	da := DA{Data: n.Name()}
	da.Ref = fmt.Sprintf("%s.%s", parentRef, da.Data)

	attr := n.dataAttribute()
	da.FC = FC(attr.fc)
	if attr.mmsValue != nil {
		da.Type = MmsType(C.MmsValue_getType(attr.mmsValue))
		da.HasValue = true
	}
	for _, child := range n.children() {
		da.DAs = append(da.DAs, dataAttributeOf(child, da.Ref))
	}
	return da
}
