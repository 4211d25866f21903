package state

// KeySpace names one of the mappings a CachedState serves.
type KeySpace uint8

const (
	StorageSpace KeySpace = iota
	NonceSpace
	ClassHashSpace
	CompiledClassHashSpace
	CompiledClassSpace
)

func (k KeySpace) String() string {
	switch k {
	case StorageSpace:
		return "storage"
	case NonceSpace:
		return "nonce"
	case ClassHashSpace:
		return "class_hash"
	case CompiledClassHashSpace:
		return "compiled_class_hash"
	case CompiledClassSpace:
		return "compiled_class"
	default:
		return "unknown"
	}
}

type EventListener interface {
	// OnRead is called for every getter call. cached is false when the
	// underlying reader had to be queried.
	OnRead(space KeySpace, cached bool)
}

type SelectiveListener struct {
	OnReadCb func(space KeySpace, cached bool)
}

func (l *SelectiveListener) OnRead(space KeySpace, cached bool) {
	if l.OnReadCb != nil {
		l.OnReadCb(space, cached)
	}
}
