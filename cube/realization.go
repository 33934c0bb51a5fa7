package cube

//go:generate mockgen -destination=mock/realization.go -package=mock . Realization

// Realization is the physical storage representation chosen to answer a query.
type Realization interface {
	Name() string
	SupportsLimitPushDown() bool
}

type StorageType int

const (
	StorageTypeLegacy StorageType = iota
	StorageTypeHybrid
	StorageTypeSharded
)

func (t StorageType) String() string {
	switch t {
	case StorageTypeLegacy:
		return "legacy"
	case StorageTypeHybrid:
		return "hybrid"
	case StorageTypeSharded:
		return "sharded"
	default:
		return "unknown"
	}
}

// Instance is a cube realization backed by one storage type.
type Instance struct {
	name        string
	storageType StorageType
}

func NewInstance(name string, storageType StorageType) *Instance {
	return &Instance{name: name, storageType: storageType}
}

func (i *Instance) Name() string {
	return i.name
}

func (i *Instance) StorageType() StorageType {
	return i.storageType
}

// SupportsLimitPushDown is true for sharded storage only: legacy and hybrid
// scans can't stop a region early without losing rows of the same group.
func (i *Instance) SupportsLimitPushDown() bool {
	return i.storageType == StorageTypeSharded
}
