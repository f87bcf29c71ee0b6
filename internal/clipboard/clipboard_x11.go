//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// x11Clipboard owns CLIPBOARD through a hidden window when built without
// cgo. Results are offered as PNG and JPEG; pastes negotiate the best image
// target the owner lists.
type x11Clipboard struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet
	sel    selection

	mu        sync.Mutex
	transfers map[transferKey]*outgoing
}

func newProvider() (provider, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	window, err := createWindow(conn, xproto.EventMaskPropertyChange|xproto.EventMaskStructureNotify)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c := &x11Clipboard{
		conn:      conn,
		window:    window,
		atoms:     atoms,
		transfers: make(map[transferKey]*outgoing),
	}
	go c.eventLoop()
	return c, nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	var atoms atomSet
	for i, field := range atoms.fields() {
		name := atomNames[i]
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return atomSet{}, fmt.Errorf("intern %s: %w", name, err)
		}
		*field = reply.Atom
	}
	return atoms, nil
}

func createWindow(conn *xgb.Conn, mask uint32) (xproto.Window, error) {
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{mask}).Check()
	if err != nil {
		return 0, err
	}
	return window, nil
}

func (c *x11Clipboard) write(f format, data []byte) error {
	if f == formatImage {
		if err := c.sel.setImage(data); err != nil {
			return err
		}
	} else {
		c.sel.setText(data)
	}
	return xproto.SetSelectionOwnerChecked(c.conn, c.window, c.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (c *x11Clipboard) read(f format) ([]byte, error) {
	prefs := c.atoms.textPreference()
	if f == formatImage {
		prefs = c.atoms.imagePreference()
	}
	target := prefs[0]
	if raw, err := c.readSelection(c.atoms.targets); err == nil {
		picked, ok := pickTarget(bytesToAtoms(raw), prefs)
		if !ok {
			return nil, fmt.Errorf("%w: no %s target offered", ErrEmpty, f)
		}
		target = picked
	}
	return c.readSelection(target)
}

func (c *x11Clipboard) eventLoop() {
	for {
		ev, err := c.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			c.handleSelectionRequest(e)
		case xproto.SelectionClearEvent:
			c.sel.clear()
		case xproto.PropertyNotifyEvent:
			if e.State == xproto.PropertyDelete {
				c.continueTransfer(transferKey{requestor: e.Window, property: e.Atom})
			}
		}
	}
}

func (c *x11Clipboard) handleSelectionRequest(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}
	payload, typ, format, ok := c.sel.convert(c.atoms, e.Target)
	switch {
	case !ok:
		property = xproto.AtomNone
	case len(payload) > incrChunk:
		c.startTransfer(e.Requestor, property, typ, payload)
	default:
		xproto.ChangeProperty(c.conn, xproto.PropModeReplace, e.Requestor, property, typ, format, propertyLength(len(payload), format), payload)
	}
	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	xproto.SendEvent(c.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

// startTransfer announces an INCR transfer. Chunks follow each time the
// requestor deletes the property.
func (c *x11Clipboard) startTransfer(requestor xproto.Window, property, typ xproto.Atom, payload []byte) {
	xproto.ChangeWindowAttributes(c.conn, requestor, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange})
	size := make([]byte, 4)
	xgb.Put32(size, uint32(len(payload)))
	xproto.ChangeProperty(c.conn, xproto.PropModeReplace, requestor, property, c.atoms.incr, 32, 1, size)
	c.mu.Lock()
	c.transfers[transferKey{requestor: requestor, property: property}] = &outgoing{
		requestor: requestor,
		property:  property,
		typ:       typ,
		data:      payload,
	}
	c.mu.Unlock()
}

func (c *x11Clipboard) continueTransfer(key transferKey) {
	c.mu.Lock()
	t, ok := c.transfers[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	chunk, more := t.next()
	if !more || t.done {
		delete(c.transfers, key)
	}
	c.mu.Unlock()
	if !more {
		return
	}
	xproto.ChangeProperty(c.conn, xproto.PropModeReplace, t.requestor, t.property, t.typ, 8, uint32(len(chunk)), chunk)
}

// readSelection converts CLIPBOARD to target on a private connection,
// following INCR transfers up to maxPasteBytes.
func (c *x11Clipboard) readSelection(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	window, err := createWindow(conn, xproto.EventMaskPropertyChange)
	if err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	prop := c.atoms.property
	if err := xproto.ConvertSelectionChecked(conn, window, c.atoms.clipboard, target, prop, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}

	var in *incoming
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		switch e := ev.(type) {
		case xproto.SelectionNotifyEvent:
			if e.Property == xproto.AtomNone {
				return nil, fmt.Errorf("%w: target unavailable", ErrEmpty)
			}
			reply, err := xproto.GetProperty(conn, true, window, prop, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
			if err != nil {
				return nil, err
			}
			if reply.Type != c.atoms.incr {
				return append([]byte(nil), reply.Value...), nil
			}
			in = &incoming{limit: maxPasteBytes}
		case xproto.PropertyNotifyEvent:
			if in == nil || e.Atom != prop || e.State != xproto.PropertyNewValue {
				continue
			}
			reply, err := xproto.GetProperty(conn, true, window, prop, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
			if err != nil {
				return nil, err
			}
			done, err := in.add(reply.Value)
			if err != nil {
				return nil, err
			}
			if done {
				return in.buf.Bytes(), nil
			}
		}
	}
}
