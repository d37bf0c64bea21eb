// Package fs implements the synthetic filesystem's kernel bridge callback
// surface: one fixed root directory plus one inode per configured entry,
// backed by shell commands launched through internal/pipeio.
package fs

import (
	"context"
	"os"
	"syscall"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"github.com/jacobsa/timeutil"

	"github.com/Smattr/execfs/internal/entry"
	"github.com/Smattr/execfs/internal/handle"
	"github.com/Smattr/execfs/internal/logger"
	"github.com/Smattr/execfs/internal/metrics"
	"github.com/Smattr/execfs/internal/perm"
	"github.com/Smattr/execfs/internal/pipeio"
)

// ServerConfig bundles the process-wide mount context (§3) needed to build a
// fuse.Server.
type ServerConfig struct {
	// Clock supplies wall-clock time for getattr timestamps.
	Clock timeutil.Clock

	// Table is the immutable catalog of synthetic files.
	Table *entry.Table

	// Uid, Gid are presented as the owner of every inode.
	Uid, Gid uint32

	// DefaultSize is reported for entries whose Size is entry.UnspecifiedSize.
	DefaultSize int64

	// Logger receives diagnostic records. Must not be nil.
	Logger *logger.Logger

	// Metrics is the optional Prometheus registry. Nil when --metrics-addr was
	// not given.
	Metrics *metrics.Registry
}

// NewServer builds a fuse.Server presenting Table as a flat directory of
// shell-command-backed files. Inode IDs for every entry are minted once,
// here, rather than lazily on first lookup: unlike a remote-object-backed
// filesystem, the entry table can never grow or shrink after startup, so
// there is no benefit to deferring the assignment and doing so up front
// keeps readdir and LookUpInode consistent without extra locking.
func NewServer(cfg *ServerConfig) (fuse.Server, error) {
	fs := newFileSystem(cfg)
	return fuseutil.NewFileSystemServer(fs), nil
}

func newFileSystem(cfg *ServerConfig) *fileSystem {
	fs := &fileSystem{
		clock:        cfg.Clock,
		table:        cfg.Table,
		uid:          cfg.Uid,
		gid:          cfg.Gid,
		defaultSize:  cfg.DefaultSize,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		handles:      handle.NewRegistry[*openHandle](),
		inodeByName:  make(map[string]fuseops.InodeID),
		entryByInode: make(map[fuseops.InodeID]entry.Entry),
	}

	nextID := fuseops.RootInodeID + 1
	cfg.Table.Enumerate(0, func(e entry.Entry, _ int) bool {
		fs.inodeByName[e.Path] = nextID
		fs.entryByInode[nextID] = e
		nextID++
		return true
	})

	return fs
}

type fileSystem struct {
	fuseutil.NotImplementedFileSystem

	clock       timeutil.Clock
	table       *entry.Table
	uid, gid    uint32
	defaultSize int64
	logger      *logger.Logger
	metrics     *metrics.Registry

	handles *handle.Registry[*openHandle]

	// Read-only after NewServer returns: one inode per table entry, minted
	// once up front (see NewServer's doc comment). No locking required.
	inodeByName  map[string]fuseops.InodeID
	entryByInode map[fuseops.InodeID]entry.Entry
}

func (fs *fileSystem) attributesForEntry(e entry.Entry) fuseops.InodeAttributes {
	size := e.Size
	if size == entry.UnspecifiedSize {
		size = fs.defaultSize
	}

	mode := os.FileMode(e.Access.User.Mask())<<6 |
		os.FileMode(e.Access.Group.Mask())<<3 |
		os.FileMode(e.Access.Other.Mask())

	now := fs.clock.Now()
	return fuseops.InodeAttributes{
		Size:   uint64(size),
		Nlink:  1,
		Mode:   mode,
		Uid:    fs.uid,
		Gid:    fs.gid,
		Atime:  now,
		Mtime:  now,
		Ctime:  now,
		Crtime: now,
	}
}

func (fs *fileSystem) rootAttributes() fuseops.InodeAttributes {
	now := fs.clock.Now()
	return fuseops.InodeAttributes{
		Nlink:  1,
		Mode:   os.ModeDir | 0555,
		Uid:    fs.uid,
		Gid:    fs.gid,
		Atime:  now,
		Mtime:  now,
		Ctime:  now,
		Crtime: now,
	}
}

func (fs *fileSystem) Init(ctx context.Context, op *fuseops.InitOp) error {
	return nil
}

func (fs *fileSystem) LookUpInode(ctx context.Context, op *fuseops.LookUpInodeOp) error {
	if op.Parent != fuseops.RootInodeID {
		return syscall.ENOENT
	}

	id, ok := fs.inodeByName[op.Name]
	if !ok {
		return syscall.ENOENT
	}

	op.Entry.Child = id
	op.Entry.Attributes = fs.attributesForEntry(fs.entryByInode[id])
	return nil
}

func (fs *fileSystem) GetInodeAttributes(ctx context.Context, op *fuseops.GetInodeAttributesOp) error {
	if op.Inode == fuseops.RootInodeID {
		op.Attributes = fs.rootAttributes()
		return nil
	}

	e, ok := fs.entryByInode[op.Inode]
	if !ok {
		return syscall.ENOENT
	}

	op.Attributes = fs.attributesForEntry(e)
	return nil
}

// SetInodeAttributes covers chmod/truncate/utime in a single kernel op. Mode
// changes are denied outright (permissions come from the configuration file,
// not the namespace); size and time changes are accepted as no-ops, since
// these files have no durable state to truncate or timestamp.
func (fs *fileSystem) SetInodeAttributes(ctx context.Context, op *fuseops.SetInodeAttributesOp) error {
	if op.Inode != fuseops.RootInodeID {
		if _, ok := fs.entryByInode[op.Inode]; !ok {
			return syscall.ENOENT
		}
	}

	if op.Mode != nil {
		return syscall.EACCES
	}

	if op.Inode == fuseops.RootInodeID {
		op.Attributes = fs.rootAttributes()
	} else {
		op.Attributes = fs.attributesForEntry(fs.entryByInode[op.Inode])
	}
	return nil
}

func (fs *fileSystem) ForgetInode(ctx context.Context, op *fuseops.ForgetInodeOp) error {
	return nil
}

func (fs *fileSystem) OpenDir(ctx context.Context, op *fuseops.OpenDirOp) error {
	if op.Inode != fuseops.RootInodeID {
		return syscall.EBADF
	}
	return nil
}

// ReadDir is stateless: every call is served directly from the entry table
// at the requested offset, so no per-handle bookkeeping is needed between
// OpenDir and ReleaseDirHandle.
func (fs *fileSystem) ReadDir(ctx context.Context, op *fuseops.ReadDirOp) error {
	if op.Inode != fuseops.RootInodeID {
		return syscall.EBADF
	}

	fs.table.Enumerate(int(op.Offset), func(e entry.Entry, next int) bool {
		d := fuseutil.Dirent{
			Offset: fuseops.DirOffset(next),
			Inode:  fs.inodeByName[e.Path],
			Name:   e.Path,
			Type:   fuseutil.DT_File,
		}
		n := fuseutil.WriteDirent(op.Dst[op.BytesRead:], d)
		if n == 0 {
			return false
		}
		op.BytesRead += n
		return true
	})

	return nil
}

func (fs *fileSystem) ReleaseDirHandle(ctx context.Context, op *fuseops.ReleaseDirHandleOp) error {
	return nil
}

// OpenFile launches the entry's command under the access mode requested by
// the caller's open flags, after checking that mode against the caller's
// evaluated permissions (§4.5). The launched command's pipe ends become an
// openHandle, registered under the 64-bit identifier handed back to the
// kernel.
func (fs *fileSystem) OpenFile(ctx context.Context, op *fuseops.OpenFileOp) error {
	e, ok := fs.entryByInode[op.Inode]
	if !ok {
		return syscall.ENOENT
	}

	wantRead, wantWrite := true, true
	switch {
	case op.OpenFlags.IsReadOnly():
		wantWrite = false
	case op.OpenFlags.IsWriteOnly():
		wantRead = false
	case op.OpenFlags.IsReadWrite():
		// both wanted
	default:
		wantWrite = false
	}

	granted := perm.Evaluate(e, fs.uid, fs.gid, op.Header.Uid, op.Header.Gid)
	if wantRead && !granted.Read {
		return syscall.EACCES
	}
	if wantWrite && !granted.Write {
		return syscall.EACCES
	}

	mode := pipeio.ModeRead
	switch {
	case wantRead && wantWrite:
		mode = pipeio.ModeReadWrite
	case wantWrite:
		mode = pipeio.ModeWrite
	}

	p, err := pipeio.Launch(e.Command, mode)
	if err != nil {
		fs.logger.Error("failed to launch command", "path", e.Path, "error", err)
		return syscall.EBADF
	}

	if fs.metrics != nil {
		fs.metrics.CommandsLaunched.Inc()
	}

	id := fs.handles.Register(newOpenHandle(p, e.Cache))
	if id == 0 {
		p.Close()
		return syscall.EBADF
	}

	op.Handle = id
	op.KeepPageCache = false
	op.UseDirectIO = true
	if fs.metrics != nil {
		fs.metrics.OpenHandles.Set(float64(fs.handles.Len()))
	}
	return nil
}

func (fs *fileSystem) ReadFile(ctx context.Context, op *fuseops.ReadFileOp) error {
	h, ok := fs.handles.Lookup(op.Handle)
	if !ok {
		return syscall.EBADF
	}

	before := 0
	if fs.metrics != nil && h.cache {
		before = h.cacheBytes()
	}

	data, err := h.read(op.Offset, len(op.Dst))
	if err != nil {
		return err
	}

	op.BytesRead = copy(op.Dst, data)
	if fs.metrics != nil && h.cache {
		fs.metrics.CacheBytes.Add(float64(h.cacheBytes() - before))
	}
	return nil
}

func (fs *fileSystem) WriteFile(ctx context.Context, op *fuseops.WriteFileOp) error {
	h, ok := fs.handles.Lookup(op.Handle)
	if !ok {
		return syscall.EBADF
	}

	_, err := h.write(op.Data)
	return err
}

func (fs *fileSystem) ReleaseFileHandle(ctx context.Context, op *fuseops.ReleaseFileHandleOp) error {
	h, ok := fs.handles.Lookup(op.Handle)
	if !ok {
		return nil
	}
	fs.handles.Release(op.Handle)

	if fs.metrics != nil && h.cache {
		fs.metrics.CacheBytes.Add(-float64(h.cacheBytes()))
	}

	if err := h.close(); err != nil {
		fs.logger.Debug("error releasing handle", "error", err)
	}
	if fs.metrics != nil {
		fs.metrics.OpenHandles.Set(float64(fs.handles.Len()))
	}
	return nil
}

// FlushFile and SyncFile are advisory no-ops: there is no durable state to
// flush or sync, only a live pipe.
func (fs *fileSystem) FlushFile(ctx context.Context, op *fuseops.FlushFileOp) error {
	return nil
}

func (fs *fileSystem) SyncFile(ctx context.Context, op *fuseops.SyncFileOp) error {
	return nil
}

// denyStub implements every mutating operation the presented namespace does
// not support: the kernel asked to change something about the synthetic
// tree, and the only way to do that is to edit the configuration file and
// remount.
func denyStub() error {
	return syscall.EACCES
}

func (fs *fileSystem) MkDir(ctx context.Context, op *fuseops.MkDirOp) error {
	return denyStub()
}

func (fs *fileSystem) MkNode(ctx context.Context, op *fuseops.MkNodeOp) error {
	return denyStub()
}

func (fs *fileSystem) CreateFile(ctx context.Context, op *fuseops.CreateFileOp) error {
	return denyStub()
}

func (fs *fileSystem) CreateLink(ctx context.Context, op *fuseops.CreateLinkOp) error {
	return denyStub()
}

func (fs *fileSystem) CreateSymlink(ctx context.Context, op *fuseops.CreateSymlinkOp) error {
	return denyStub()
}

func (fs *fileSystem) Rename(ctx context.Context, op *fuseops.RenameOp) error {
	return denyStub()
}

func (fs *fileSystem) RmDir(ctx context.Context, op *fuseops.RmDirOp) error {
	return denyStub()
}

func (fs *fileSystem) Unlink(ctx context.Context, op *fuseops.UnlinkOp) error {
	return denyStub()
}

func (fs *fileSystem) ReadSymlink(ctx context.Context, op *fuseops.ReadSymlinkOp) error {
	return denyStub()
}

func (fs *fileSystem) SetXattr(ctx context.Context, op *fuseops.SetXattrOp) error {
	return denyStub()
}

func (fs *fileSystem) RemoveXattr(ctx context.Context, op *fuseops.RemoveXattrOp) error {
	return denyStub()
}

// Destroy closes the log sink. The kernel reclaims every other descriptor
// this process holds.
func (fs *fileSystem) Destroy() {
	if err := fs.logger.Close(); err != nil {
		// Nothing further to log to at this point; best effort only.
		_ = err
	}
}

var _ fuseutil.FileSystem = (*fileSystem)(nil)
