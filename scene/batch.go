package scene

import (
	"github.com/google/uuid"

	"github.com/meadow3d/meadow/core"
)

// BatchId keys a batch's uploaded GPU buffers across frames.
type BatchId string

func NewBatchId() BatchId {
	return BatchId(uuid.NewString())
}

// Batch is one draw call: a mesh, its instances, and the fragment variant
// that shades it. The gpu manager watches the dirty flags to know what to
// re-upload.
type Batch struct {
	Id        BatchId
	Variant   core.Variant
	Mesh      Mesh
	Instances []core.Instance

	// LinearLut selects the per-stop LUT instead of the stepped ramp.
	LinearLut bool

	MeshDirty      bool
	InstancesDirty bool
}

func NewBatch(variant core.Variant, mesh Mesh, instances []core.Instance) *Batch {
	return &Batch{
		Id:             NewBatchId(),
		Variant:        variant,
		Mesh:           mesh,
		Instances:      instances,
		MeshDirty:      true,
		InstancesDirty: true,
	}
}
