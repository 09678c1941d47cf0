package apps

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"rpcg/internal/pkg/parse"

	"github.com/pkg/errors"
)

type try struct {
	name  string
	count uint64
}

// workload yields tries one at a time until ok is false.
type workload func() (t try, ok bool, err error)

// readTries reads "name count" lines. Blank lines are skipped; the count
// must be a complete uint64.
func readTries(r io.Reader) workload {
	scanner := bufio.NewScanner(r)
	line := 0
	return func() (try, bool, error) {
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			fields := strings.Fields(text)
			if len(fields) != 2 {
				return try{}, false, errors.Errorf("line %d: want \"name count\", got %q", line, text)
			}
			count, err := parse.Uint64(fields[1])
			if err != nil {
				return try{}, false, errors.Wrapf(err, "line %d", line)
			}
			return try{name: fields[0], count: count}, true, nil
		}
		return try{}, false, errors.Wrap(scanner.Err(), "scan input failed")
	}
}

// generate yields n pseudo-random tries drawn from seed.
func generate(n int, seed int64) workload {
	rng := rand.New(rand.NewSource(seed)) // nolint: gosec // workload only
	i := 0
	return func() (try, bool, error) {
		if i >= n {
			return try{}, false, nil
		}
		i++
		return try{
			name:  fmt.Sprintf("try-%x", rng.Uint32()),
			count: uint64(rng.Int63n(1 << 20)),
		}, true, nil
	}
}
