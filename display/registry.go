package display

import (
	"fmt"
	"sort"

	"github.com/hollowtree/xdisplay/display/driver"
)

// windowData is the registry record for one live window. All fields are
// guarded by Server.mu; the ingestion goroutine never touches them.
type windowData struct {
	id     WindowID
	handle driver.Handle

	position Point
	size     Size
	minSize  Size
	maxSize  Size

	mode  WindowMode
	flags [FlagMax]bool

	transientParent   WindowID
	transientChildren map[WindowID]struct{}

	focused    bool
	instanceID uint64

	// Windowed position to restore when leaving fullscreen.
	lastPositionBeforeFullscreen Point

	rectChanged RectChangedFunc
	windowEvent WindowEventFunc
	inputEvent  InputEventFunc
	inputText   InputTextFunc
	dropFiles   DropFilesFunc
}

// CreateSubWindow allocates a window id, creates the unmapped native window
// at rect and applies each requested flag in ascending flag order. The
// caller must ShowWindow before the window appears.
func (s *Server) CreateSubWindow(mode WindowMode, flags uint32, rect Rect) (WindowID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rect.Width < 1 {
		rect.Width = 1
	}
	if rect.Height < 1 {
		rect.Height = 1
	}

	attrs := driver.WindowAttributes{
		Transparent: flags&FlagBit(FlagTransparent) != 0,
	}
	handle, err := s.conn.CreateWindow(rect, attrs)
	if err != nil {
		return InvalidWindowID, fmt.Errorf("create window: %w", err)
	}

	id := s.nextID
	s.nextID++

	if err := s.renderer.WindowCreate(id, handle, rect.Width, rect.Height); err != nil {
		// Surface creation failure is fatal for this window: release the
		// native resource and report.
		if derr := s.conn.DestroyWindow(handle); derr != nil {
			s.logger.Warn("destroy after failed surface create", "error", derr)
		}
		return InvalidWindowID, fmt.Errorf("create presentation surface: %w", err)
	}

	wd := &windowData{
		id:                id,
		handle:            handle,
		position:          rect.Position(),
		size:              rect.Size(),
		mode:              ModeWindowed,
		transientParent:   InvalidWindowID,
		transientChildren: make(map[WindowID]struct{}),
	}
	s.windows[id] = wd

	for f := WindowFlag(0); f < FlagMax; f++ {
		if flags&FlagBit(f) != 0 {
			if err := s.setFlagLocked(wd, f, true); err != nil {
				s.logger.Warn("initial flag rejected", "window_id", id, "flag", f.String(), "error", err)
			}
		}
	}
	if mode != ModeWindowed {
		if err := s.setModeLocked(wd, mode); err != nil {
			s.logger.Warn("initial mode rejected", "window_id", id, "mode", mode.String(), "error", err)
		}
	}

	s.flush()
	return id, nil
}

// DeleteSubWindow destroys a window. The main window is never deletable.
// Must be called from the goroutine that drains events; destruction racing
// the processing of an event for the same id is not supported.
func (s *Server) DeleteSubWindow(id WindowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wd, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidWindow, id)
	}
	if id == MainWindowID {
		return fmt.Errorf("%w: main window can't be deleted", ErrInvalidWindow)
	}

	// Detach transient children first. Snapshot the set: detaching
	// mutates it, and map iteration during mutation is a hazard.
	children := make([]WindowID, 0, len(wd.transientChildren))
	for child := range wd.transientChildren {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	for _, child := range children {
		if err := s.setTransientLocked(child, InvalidWindowID); err != nil {
			s.logger.Warn("detach transient child failed", "window_id", child, "error", err)
		}
	}
	if wd.transientParent != InvalidWindowID {
		if err := s.setTransientLocked(id, InvalidWindowID); err != nil {
			s.logger.Warn("detach transient parent failed", "window_id", id, "error", err)
		}
	}

	s.renderer.WindowDestroy(id)
	if err := s.conn.UnmapWindow(wd.handle); err != nil {
		s.logger.Warn("unmap failed", "window_id", id, "error", err)
	}
	if err := s.conn.DestroyWindow(wd.handle); err != nil {
		s.logger.Warn("destroy failed", "window_id", id, "error", err)
	}
	delete(s.windows, id)

	s.flush()
	return nil
}

// ShowWindow maps the window on screen.
func (s *Server) ShowWindow(id WindowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wd, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidWindow, id)
	}
	if err := s.conn.MapWindow(wd.handle); err != nil {
		return fmt.Errorf("map window %d: %w", id, err)
	}
	s.flush()
	return nil
}

// Windows returns the ids of all live windows, unordered.
func (s *Server) Windows() []WindowID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]WindowID, 0, len(s.windows))
	for id := range s.windows {
		ids = append(ids, id)
	}
	return ids
}

// window resolves an id under the lock. Read accessors that can't return an
// error log and fail closed instead.
func (s *Server) window(id WindowID) (*windowData, bool) {
	wd, ok := s.windows[id]
	if !ok {
		s.logger.Warn("unknown window id", "window_id", id)
	}
	return wd, ok
}

// windowByHandle resolves a native handle to its record. Events for handles
// the registry no longer tracks resolve to nil.
func (s *Server) windowByHandle(h driver.Handle) *windowData {
	for _, wd := range s.windows {
		if wd.handle == h {
			return wd
		}
	}
	return nil
}

// focusedWindow returns the window holding keyboard focus, if any.
func (s *Server) focusedWindow() *windowData {
	for _, wd := range s.windows {
		if wd.focused {
			return wd
		}
	}
	return nil
}

// WindowAttachInstanceID tags the window with an opaque owner id.
func (s *Server) WindowAttachInstanceID(instance uint64, id WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		wd.instanceID = instance
	}
}

// WindowGetAttachedInstanceID returns the owner tag, or zero for unknown
// windows.
func (s *Server) WindowGetAttachedInstanceID(id WindowID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		return wd.instanceID
	}
	return 0
}

// WindowSetTransient links window id under parent. Passing InvalidWindowID
// clears an existing link. AlwaysOnTop windows can't become transient.
func (s *Server) WindowSetTransient(id, parent WindowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.setTransientLocked(id, parent)
	if err == nil {
		s.flush()
	}
	return err
}

func (s *Server) setTransientLocked(id, parent WindowID) error {
	if id == parent {
		return fmt.Errorf("%w: window can't be transient for itself", ErrInvalidState)
	}
	wd, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidWindow, id)
	}
	if wd.transientParent == parent {
		return fmt.Errorf("%w: transient parent unchanged", ErrInvalidState)
	}
	if wd.flags[FlagAlwaysOnTop] {
		return fmt.Errorf("%w: windows with the 'on top' flag can't become transient", ErrInvalidState)
	}

	if parent == InvalidWindowID {
		prev, ok := s.windows[wd.transientParent]
		if !ok {
			return fmt.Errorf("%w: transient parent %d", ErrInvalidWindow, wd.transientParent)
		}
		wd.transientParent = InvalidWindowID
		delete(prev.transientChildren, id)
		return s.conn.SetTransientFor(wd.handle, driver.None)
	}

	if wd.transientParent != InvalidWindowID {
		return fmt.Errorf("%w: window already has a transient parent", ErrInvalidState)
	}
	pd, ok := s.windows[parent]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidWindow, parent)
	}
	wd.transientParent = parent
	pd.transientChildren[id] = struct{}{}
	return s.conn.SetTransientFor(wd.handle, pd.handle)
}

// WindowGetTransientParent returns the parent id, or InvalidWindowID when
// the window has none or is unknown.
func (s *Server) WindowGetTransientParent(id WindowID) WindowID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		return wd.transientParent
	}
	return InvalidWindowID
}

// WindowGetTransientChildren returns the ids naming this window as their
// transient parent, sorted for determinism.
func (s *Server) WindowGetTransientChildren(id WindowID) []WindowID {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.window(id)
	if !ok {
		return nil
	}
	children := make([]WindowID, 0, len(wd.transientChildren))
	for child := range wd.transientChildren {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	return children
}

func (s *Server) flush() {
	if err := s.conn.Flush(); err != nil {
		s.logger.Warn("flush failed", "error", err)
	}
}
