// Package graph implements the pointer table: discovering every
// distinct object reachable from a root value, assigning each a
// stable index, and using that index to serialize and reconstruct a
// pointer-linked object graph (shared references, cycles, nulls)
// without embedding raw addresses in the wire format.
package graph

import (
	"strconv"
	"strings"
	"unsafe"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rawbytedev/carlgo"
)

// entry is one row of the table: the value discovered at that index
// and whether the table owns (will serialize) its contents, or merely
// references it by index because another entry already owns it
// inline.
type entry struct {
	value carlgo.ReflectedValue
	owns  bool
}

// Table is the pointer table for one serialize or deserialize
// operation. It is not safe for concurrent use by multiple
// goroutines, matching spec.md's single-writer-per-graph concurrency
// model.
type Table struct {
	entries   []entry
	byAddress map[carlgo.Key]int
	patches   []carlgo.Patch
	log       *zap.Logger
	opID      uuid.UUID
}

// Option configures a Table.
type Option func(*Table)

// WithLogger attaches a *zap.Logger used for Debug-level discovery
// diagnostics and Error-level reporting when Load rejects a malformed
// table header; other malformed-stream errors are returned without
// logging. A nil logger behaves like zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(t *Table) {
		if log != nil {
			t.log = log
		}
	}
}

// WithInitialCapacity preallocates room for n entries, avoiding
// reallocation for graphs whose approximate size is known up front.
func WithInitialCapacity(n int) Option {
	return func(t *Table) {
		if n > 0 {
			t.entries = make([]entry, 0, n)
		}
	}
}

// NewTable returns an empty Table ready for Populate or Load.
func NewTable(opts ...Option) *Table {
	t := &Table{
		byAddress: make(map[carlgo.Key]int),
		log:       zap.NewNop(),
		opID:      uuid.New(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Table) find(v carlgo.ReflectedValue) (int, bool) {
	idx, ok := t.byAddress[v.Key()]
	return idx, ok
}

func (t *Table) record(v carlgo.ReflectedValue, idx int) {
	t.byAddress[v.Key()] = idx
}

// Populate walks root's reachable graph depth-first, assigning every
// distinct (address, type) pair an index. Members declared by the
// value's ancestors are walked as well as its own. A pointer member's
// target is discovered owning (Emit writes it as a record of its
// own); an inline composite or array element member
// is discovered non-owning, since its containing entry already owns
// its storage. If the same (address, type) is later discovered
// non-owning, ownership downgrades to non-owning even if a pointer
// had already claimed it - an inline location always wins, since the
// instance's real lifetime is tied to its owner, not to whichever
// pointer happened to reach it first.
func (t *Table) Populate(root carlgo.ReflectedValue) error {
	_, err := t.populate(root, true)
	return err
}

func (t *Table) populate(value carlgo.ReflectedValue, owns bool) (int, error) {
	if idx, found := t.find(value); found {
		if !owns && t.entries[idx].owns {
			t.log.Debug("ownership downgraded to inline",
				zap.String("op", t.opID.String()),
				zap.String("type", typeName(value)),
				zap.Int("index", idx))
			t.entries[idx].owns = false
		}
		return idx, nil
	}

	idx := len(t.entries)
	t.entries = append(t.entries, entry{value: value, owns: owns})
	t.record(value, idx)
	t.log.Debug("entry discovered",
		zap.String("op", t.opID.String()),
		zap.String("type", typeName(value)),
		zap.Int("index", idx),
		zap.Bool("owns", owns))

	if value.Addr == nil || value.Descriptor == nil {
		return idx, nil
	}
	// Members declared by ancestors come first, matching the order
	// the walker writes them in the value's single merged record.
	var members []*carlgo.MemberDescriptor
	for d := value.Descriptor; d != nil; d = d.Parent {
		members = append(append([]*carlgo.MemberDescriptor{}, d.Members...), members...)
	}
	for _, m := range members {
		if !m.IsPointer && !m.Type.HasStructuralMembers() {
			continue
		}
		if m.IsPointer {
			target := m.PointerTarget(value.Addr)
			if _, err := t.populate(carlgo.ReflectedValue{Descriptor: m.Type, Addr: target}, true); err != nil {
				return 0, err
			}
			continue
		}
		if m.IsArray() {
			base := m.Get(value.Addr)
			elemSize := uintptr(m.Type.Size)
			for i := 0; i < m.ElementCount(); i++ {
				elemAddr := unsafe.Add(base, uintptr(i)*elemSize)
				if _, err := t.populate(carlgo.ReflectedValue{Descriptor: m.Type, Addr: elemAddr}, false); err != nil {
					return 0, err
				}
			}
			continue
		}
		sub := carlgo.ReflectedValue{Descriptor: m.Type, Addr: m.Get(value.Addr)}
		if _, err := t.populate(sub, false); err != nil {
			return 0, err
		}
	}
	return idx, nil
}

func typeName(v carlgo.ReflectedValue) string {
	if v.Descriptor == nil {
		return "<nil>"
	}
	return v.Descriptor.Name
}

// IndexOf implements carlgo.IndexResolver for the Encode side: it
// returns the index Populate already assigned to v.
func (t *Table) IndexOf(v carlgo.ReflectedValue) (int, error) {
	idx, ok := t.find(v)
	if !ok {
		return 0, carlgo.UnknownTypeErr(typeName(v))
	}
	return idx, nil
}

// AddPatch implements carlgo.DecodeTable: it defers a pointer fix-up
// until every entry in the table has a resolved address.
func (t *Table) AddPatch(p carlgo.Patch) {
	t.patches = append(t.patches, p)
}

// Publish implements carlgo.DecodeTable: it records the fully decoded
// value at index, called once a record's closing bracket has been
// read.
func (t *Table) Publish(index int, v carlgo.ReflectedValue) {
	if index < 0 || index >= len(t.entries) {
		return
	}
	t.entries[index] = entry{value: v, owns: true}
}

// Emit writes the table header (entry count) followed by one record
// per owning entry, in discovery order. Non-owning entries are
// skipped: their contents were already written inline by whichever
// owning entry holds them.
func (t *Table) Emit(w *carlgo.Writer) error {
	if err := w.Token(strconv.Itoa(len(t.entries))); err != nil {
		return err
	}
	if err := w.Newline(); err != nil {
		return err
	}
	for _, e := range t.entries {
		if !e.owns {
			continue
		}
		if e.value.Descriptor != nil && e.value.Descriptor.Parent != nil {
			if err := w.Tag(e.value.Descriptor.Name); err != nil {
				return err
			}
		}
		if err := e.value.Descriptor.Encode(e.value, w, t, false); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Load reads a table header and its records from r, allocating a
// fresh instance per record via the registered descriptor, then drains
// the deferred patch list once every entry has a final address. It
// returns the value at index 0, the root of the graph that was
// serialized.
func (t *Table) Load(r *carlgo.Reader, reg *carlgo.TypeRegistry) (carlgo.ReflectedValue, error) {
	sizeTok, err := r.NextToken()
	if err != nil {
		return carlgo.ReflectedValue{}, err
	}
	n, err := strconv.Atoi(sizeTok)
	if err != nil || n <= 0 {
		t.log.Error("malformed table header", zap.String("op", t.opID.String()), zap.String("token", sizeTok))
		return carlgo.ReflectedValue{}, carlgo.MalformedStreamErr(r.Pos(), "expected positive entry count, got "+sizeTok)
	}
	t.entries = make([]entry, n)

	for r.More() {
		tag, hasTag, err := peekTag(r)
		if err != nil {
			return carlgo.ReflectedValue{}, err
		}
		recordStart := r.Pos()

		idxTok, err := r.NextToken()
		if err != nil {
			return carlgo.ReflectedValue{}, err
		}
		idx, err := strconv.Atoi(idxTok)
		if err != nil {
			return carlgo.ReflectedValue{}, carlgo.MalformedStreamErr(r.Pos(), "expected pointer table index, got "+idxTok)
		}
		if idx < 0 || idx >= n {
			return carlgo.ReflectedValue{}, carlgo.IndexOutOfRangeErr(idx, n)
		}

		typeName := tag
		if !hasTag {
			typeName, err = r.NextToken()
			if err != nil {
				return carlgo.ReflectedValue{}, err
			}
		}

		descriptor, ok := reg.Lookup(typeName)
		if !ok {
			return carlgo.ReflectedValue{}, carlgo.UnknownTypeErr(typeName)
		}
		addr := descriptor.Allocate()
		if addr == nil {
			return carlgo.ReflectedValue{}, carlgo.AllocationFailureErr(typeName)
		}

		r.SeekTo(recordStart)
		if _, err := descriptor.Decode(carlgo.ReflectedValue{Descriptor: descriptor, Addr: addr}, r, t, false); err != nil {
			return carlgo.ReflectedValue{}, err
		}
	}

	for _, p := range t.patches {
		if p.TargetIndex < 0 || p.TargetIndex >= len(t.entries) {
			return carlgo.ReflectedValue{}, carlgo.IndexOutOfRangeErr(p.TargetIndex, len(t.entries))
		}
		p.Apply(t.entries[p.TargetIndex].value.Addr)
	}

	if len(t.entries) == 0 {
		return carlgo.ReflectedValue{}, carlgo.MalformedStreamErr(r.Pos(), "empty pointer table")
	}
	return t.entries[0].value, nil
}

// peekTag consumes an optional leading "(Name)" tag if present,
// returning its contents and true, or "", false if the next token was
// not a tag - in which case nothing is consumed.
func peekTag(r *carlgo.Reader) (string, bool, error) {
	tok, err := r.PeekToken()
	if err != nil {
		return "", false, err
	}
	if !strings.HasPrefix(tok, "(") || !strings.HasSuffix(tok, ")") {
		return "", false, nil
	}
	if _, err := r.NextToken(); err != nil {
		return "", false, err
	}
	return strings.TrimSuffix(strings.TrimPrefix(tok, "("), ")"), true, nil
}
