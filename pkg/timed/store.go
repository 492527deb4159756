package timed

import (
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Store holds the process-wide active Output and, for CSV, its open file.
//
// Reporters take an (output, file) snapshot under the read lock and
// release it before calling any sink, logger or observer. A CSV snapshot
// holds an in-flight reference on its file; Set waits for those before
// closing or truncating, so a row always lands in the file that was
// current when its dispatch began and never in a closed one.
type Store struct {
	mu      sync.RWMutex
	output  Output
	csv     *csvSink
	initErr error

	once     sync.Once
	lookup   LookupFunc
	log      *zap.Logger
	observer Observer
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithEnvLookup replaces os.LookupEnv for environment resolution.
func WithEnvLookup(lookup LookupFunc) StoreOption {
	return func(s *Store) { s.lookup = lookup }
}

// WithStoreLogger sets the logger used for the store's own warnings.
func WithStoreLogger(log *zap.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStoreObserver receives a callback for every output change.
func WithStoreObserver(o Observer) StoreOption {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewStore creates a store. Its output is resolved from the environment
// on first use unless Set is called before that.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		log:      zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) init() {
	var (
		ch  change
		ran bool
	)
	s.once.Do(func() {
		ran = true
		s.mu.Lock()
		defer s.mu.Unlock()
		ch = s.setLocked(OutputFromEnv(s.lookup))
		s.initErr = ch.err
	})
	if !ran {
		return
	}

	// Callbacks run outside Once so they may use the store.
	s.notify(ch)
	if ch.err != nil {
		s.log.Warn("timing output from environment disabled",
			zap.String("env", EnvVar),
			zap.Stringer("output", ch.output),
			zap.Error(ch.err))
	}
}

// InitErr returns the error from environment initialization, if the
// output it named could not be activated.
func (s *Store) InitErr() error {
	s.init()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initErr
}

// Get returns the active output.
func (s *Store) Get() Output {
	s.init()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.output
}

// Set replaces the active output. For CSV the file is created or
// truncated and the header written before Set returns; setting the same
// path again starts a fresh file. On failure the store falls back to Off
// and a *ConfigurationError is returned.
func (s *Store) Set(o Output) error {
	// An explicit Set before first use wins over the environment.
	s.once.Do(func() {})

	s.mu.Lock()
	ch := s.setLocked(o)
	s.mu.Unlock()

	s.notify(ch)
	return ch.err
}

// RefreshFromEnv re-reads the environment and applies the result.
func (s *Store) RefreshFromEnv() error {
	return s.Set(OutputFromEnv(s.lookup))
}

// Close releases any open CSV file and resets the output to Off.
func (s *Store) Close() error {
	s.once.Do(func() {})

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.csv != nil {
		err = s.csv.close()
		s.csv = nil
	}
	s.output = Off()
	return err
}

// change is the outcome of one setLocked call, reported once the lock
// is released.
type change struct {
	output   Output
	err      error
	closeErr error
}

func (s *Store) setLocked(o Output) change {
	var closeErr error

	// The old file is released first so the same path can be truncated.
	// close waits for rows already in flight to it.
	if s.csv != nil {
		closeErr = s.csv.close()
		s.csv = nil
	}

	if o.Kind() == KindCSV {
		sink, err := openCSV(o.Path())
		if err != nil {
			var result *multierror.Error
			if closeErr != nil {
				result = multierror.Append(result, closeErr)
			}
			result = multierror.Append(result, err)
			s.output = Off()
			return change{output: o, err: &ConfigurationError{Output: o, Err: result.ErrorOrNil()}}
		}
		s.csv = sink
	}

	s.output = o
	return change{output: o, closeErr: closeErr}
}

func (s *Store) notify(ch change) {
	s.observer.OutputChanged(ch.output, ch.err)
	if ch.closeErr != nil {
		// Closing the previous file failed but the new output is live.
		s.log.Warn("failed to close previous timing output", zap.Error(ch.closeErr))
	}
}

// snapshot returns the active output and, for CSV, its sink with an
// in-flight reference the caller must release.
func (s *Store) snapshot() (Output, *csvSink) {
	s.init()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.csv != nil {
		s.csv.acquire()
	}
	return s.output, s.csv
}
