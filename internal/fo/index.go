package fo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// FileRecord is the source file currently chosen for one filename.
// Hash is empty until the record first takes part in a collision.
type FileRecord struct {
	Filename string
	Path     *Path
	Hash     string
}

// RejectedFile describes a same-named file that was not kept.
type RejectedFile struct {
	Path string
	Hash string
}

// ConflictRecord pairs the kept record with a same-named file whose content differs.
type ConflictRecord struct {
	Kept     FileRecord
	Rejected RejectedFile
}

// collisionOutcome is the result of offering a file to the index.
type collisionOutcome int

const (
	outcomeAdded collisionOutcome = iota
	outcomeDuplicate
	outcomeConflict
)

// fileIndex maps filenames to their first-seen record.
// Records keep insertion order so the output copy runs in discovery order.
type fileIndex struct {
	fsmgr   FilesystemManager
	records map[string]*FileRecord
	order   []*FileRecord
}

func newFileIndex(fsmgr FilesystemManager) *fileIndex {
	return &fileIndex{
		fsmgr:   fsmgr,
		records: make(map[string]*FileRecord),
	}
}

// Len returns the number of distinct filenames indexed.
func (idx *fileIndex) Len() int {
	return len(idx.order)
}

// Records returns the retained records in first-seen order.
func (idx *fileIndex) Records() []*FileRecord {
	return idx.order
}

// Offer adds path to the index or resolves its collision with the existing
// record. The existing record is never replaced. On a collision the returned
// record is the kept one and hash is the offered file's content hash.
func (idx *fileIndex) Offer(path *Path) (outcome collisionOutcome, kept *FileRecord, hash string, err error) {
	name := path.Name()
	existing, ok := idx.records[name]
	if !ok {
		rec := &FileRecord{Filename: name, Path: path}
		idx.records[name] = rec
		idx.order = append(idx.order, rec)
		return outcomeAdded, rec, "", nil
	}

	keptHash, err := idx.hashOf(existing)
	if err != nil {
		return 0, existing, "", err
	}
	hash, err = hashFile(idx.fsmgr, path)
	if err != nil {
		return 0, existing, "", err
	}

	if keptHash == hash {
		return outcomeDuplicate, existing, hash, nil
	}
	return outcomeConflict, existing, hash, nil
}

// hashOf returns the record's content hash, computing and caching it on first use.
func (idx *fileIndex) hashOf(rec *FileRecord) (string, error) {
	if rec.Hash != "" {
		return rec.Hash, nil
	}
	h, err := hashFile(idx.fsmgr, rec.Path)
	if err != nil {
		return "", err
	}
	rec.Hash = h
	return h, nil
}

// hashFile returns the hex-encoded SHA-256 of the file's full contents.
func hashFile(fsmgr FilesystemManager, path *Path) (string, error) {
	r, err := fsmgr.Open(path)
	if err != nil {
		return "", ioErr("open", path.String(), err)
	}
	defer r.Close()

	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", ioErr("hash", path.String(), fmt.Errorf("reading content: %w", err))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
