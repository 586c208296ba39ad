// Package presetgw loads and stores named filter trees through an owner-scoped store
package presetgw

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"postfilter/internal/core/filtertree"
	perr "postfilter/internal/platform/errors"
)

// MaxNameLen bounds preset names in characters
const MaxNameLen = 120

// Preset is a stored tree as the store returned it
// Filters stays undecoded until the preset is opened
type Preset struct {
	ID        int64
	Name      string
	Filters   filtertree.Payload
	CreatedAt time.Time
}

// Store is the persistence boundary; every call is scoped to one owner
type Store interface {
	List(ctx context.Context, owner string) ([]Preset, error)
	Save(ctx context.Context, owner, name string, filters filtertree.WireGroup) (int64, error)
	Remove(ctx context.Context, owner string, id int64) (bool, error)
}

// RemoteError marks a failure that came from the store
// the wrapped error keeps its platform code so transports map it unchanged
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string { return e.Op + ": " + e.Err.Error() }

// Unwrap returns the store error
func (e *RemoteError) Unwrap() error { return e.Err }

// IsRemote reports whether err came from the store
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

func remote(op string, err error) error {
	if _, ok := perr.As(err); !ok {
		err = perr.Wrap(err, perr.ErrorCodeUnavailable, "preset store unavailable")
	}
	return &RemoteError{Op: op, Err: err}
}

// Gateway validates trees on the way in and out of a Store
type Gateway struct {
	store Store
	codec *filtertree.Codec
}

// New builds a gateway; a nil codec uses the default registry and depth
func New(store Store, codec *filtertree.Codec) *Gateway {
	if store == nil {
		panic("presetgw.Gateway requires a non nil Store")
	}
	if codec == nil {
		codec = filtertree.NewCodec(nil, 0)
	}
	return &Gateway{store: store, codec: codec}
}

// Codec returns the codec presets are validated with
func (g *Gateway) Codec() *filtertree.Codec { return g.codec }

// List returns the owner's presets with their payloads untouched
func (g *Gateway) List(ctx context.Context, owner string) ([]Preset, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	ps, err := g.store.List(ctx, owner)
	if err != nil {
		return nil, remote("presets.list", err)
	}
	return ps, nil
}

// Open decodes a listed preset into an editable tree
func (g *Gateway) Open(p Preset) (filtertree.Group, error) {
	return g.codec.Decode(p.Filters)
}

// Load lists the owner's presets, picks id and decodes it
func (g *Gateway) Load(ctx context.Context, owner string, id int64) (Preset, filtertree.Group, error) {
	ps, err := g.List(ctx, owner)
	if err != nil {
		return Preset{}, filtertree.Group{}, err
	}
	for _, p := range ps {
		if p.ID != id {
			continue
		}
		tree, err := g.Open(p)
		if err != nil {
			return p, filtertree.Group{}, err
		}
		return p, tree, nil
	}
	return Preset{}, filtertree.Group{}, remote("presets.load", perr.NotFoundf("preset %d not found", id))
}

// Save encodes tree first so only submittable trees reach the store
func (g *Gateway) Save(ctx context.Context, owner, name string, tree filtertree.Group) (int64, error) {
	if err := checkOwner(owner); err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "preset name is required"), "name")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return 0, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "preset name exceeds %d characters", MaxNameLen), "name")
	}
	wire, err := g.codec.Encode(tree)
	if err != nil {
		return 0, err
	}
	id, err := g.store.Save(ctx, owner, name, wire)
	if err != nil {
		return 0, remote("presets.save", err)
	}
	return id, nil
}

// Remove deletes a preset; false means nothing of the owner's matched id
// removing a preset has no effect on a tree already opened from it
func (g *Gateway) Remove(ctx context.Context, owner string, id int64) (bool, error) {
	if err := checkOwner(owner); err != nil {
		return false, err
	}
	ok, err := g.store.Remove(ctx, owner, id)
	if err != nil {
		return false, remote("presets.remove", err)
	}
	return ok, nil
}

func checkOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return perr.Unauthorizedf("preset owner is required")
	}
	return nil
}
