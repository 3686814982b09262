package refgen

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^CLN-\d{4}-\d{6}(-\d{3})?$`)

type fixedTime struct {
	t time.Time
}

func (f *fixedTime) Now() time.Time { return f.t }

// fakeProber имитирует хранилище: счётчик и множество занятых референсов
type fakeProber struct {
	mu       sync.Mutex
	count    int
	existing map[string]bool
	countErr error
}

func (f *fakeProber) CountInYear(_ context.Context, _ int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

func (f *fakeProber) ExistsByReference(_ context.Context, ref string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[ref], nil
}

func (f *fakeProber) add(ref string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existing == nil {
		f.existing = map[string]bool{}
	}
	f.existing[ref] = true
	f.count++
}

func newGenerator(prober *fakeProber) *Generator {
	g := NewGenerator("CLN", prober)
	g.timeProvider = &fixedTime{t: time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)}
	return g
}

func TestGenerator_Generate_Format(t *testing.T) {
	g := newGenerator(&fakeProber{count: 41})

	ref, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CLN-2025-000042", ref)
}

func TestGenerator_Generate_CollisionAppendsSuffix(t *testing.T) {
	prober := &fakeProber{count: 7}
	prober.add("CLN-2025-000008")
	prober.count = 7 // add() инкрементирует, возвращаем счётчик в состояние гонки

	g := newGenerator(prober)

	ref, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, `^CLN-2025-000008-\d{3}$`, ref)
}

func TestGenerator_Generate_ProberError(t *testing.T) {
	g := newGenerator(&fakeProber{countErr: errors.New("connection refused")})

	_, err := g.Generate(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

// M конкурентных генераций в одном году дают M различных референсов:
// каждая запись фиксируется в fakeProber, как это делает вставка в БД
func TestGenerator_Generate_ConcurrentUniqueness(t *testing.T) {
	const workers = 50

	prober := &fakeProber{existing: map[string]bool{}}
	g := newGenerator(prober)

	var (
		mu   sync.Mutex
		refs = make(map[string]int)
		wg   sync.WaitGroup
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Имитация вставки с уникальным индексом: при дубликате
			// генерируем заново, как координатор при ErrReferenceCollision
			for {
				ref, err := g.Generate(context.Background())
				require.NoError(t, err)
				assert.Regexp(t, referencePattern, ref)

				mu.Lock()
				if _, taken := refs[ref]; taken {
					mu.Unlock()
					continue
				}
				refs[ref]++
				mu.Unlock()
				prober.add(ref)
				return
			}
		}()
	}

	wg.Wait()

	assert.Len(t, refs, workers)
	for ref, n := range refs {
		assert.Equal(t, 1, n, "reference %s generated %d times", ref, n)
	}
}
