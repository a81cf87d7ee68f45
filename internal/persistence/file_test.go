package persistence

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/locvowork/company_registry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRecords = []domain.Descriptor{
	{ID: 1, Name: "Alice", Department: "HR", Salary: 5000, Kind: domain.KindEmployee},
	{ID: 2, Name: "Bob", Department: "IT", Salary: 6000, Kind: domain.KindEmployee},
	{ID: 3, Name: "Charlie, Jr.", Department: "IT", Salary: 8000, Kind: domain.KindManager, Factor: 1.5},
}

func TestFileSnapshotterRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".yaml", ".yml", ".csv", ".xlsx"} {
		t.Run(ext, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "company"+ext)

			s, err := NewFileSnapshotter(path)
			require.NoError(t, err)
			require.NoError(t, s.Save(ctx, sampleRecords))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleRecords, got)
		})
	}
}

func TestFileSnapshotterLastWriteWins(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileSnapshotter(filepath.Join(dir, "company.json"))
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, sampleRecords))
	require.NoError(t, s.Save(ctx, sampleRecords[:1]))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords[:1], got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileSnapshotterErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown extension", func(t *testing.T) {
		_, err := NewFileSnapshotter("company.txt")
		assert.ErrorIs(t, err, domain.ErrPersistence)
	})

	t.Run("missing file", func(t *testing.T) {
		s, err := NewFileSnapshotter(filepath.Join(t.TempDir(), "missing.json"))
		require.NoError(t, err)
		_, err = s.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrPersistence)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"id": "one"}]`), 0o600))
		s, err := NewFileSnapshotter(path)
		require.NoError(t, err)
		_, err = s.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrPersistence)
	})

	t.Run("missing directory on save", func(t *testing.T) {
		s, err := NewFileSnapshotter(filepath.Join(t.TempDir(), "nope", "company.json"))
		require.NoError(t, err)
		assert.ErrorIs(t, s.Save(ctx, sampleRecords), domain.ErrPersistence)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		s, err := NewFileSnapshotter(filepath.Join(t.TempDir(), "company.json"))
		require.NoError(t, err)
		assert.ErrorIs(t, s.Save(cctx, sampleRecords), context.Canceled)
	})
}

func TestCodecs(t *testing.T) {
	t.Run("json is indented and uses plain field names", func(t *testing.T) {
		data, err := EncodeToBytes(JSONCodec{}, sampleRecords[:1])
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n  {\n    \"id\": 1,")
		assert.Contains(t, string(data), `"kind": "Employee"`)
		assert.NotContains(t, string(data), "factor")
	})

	t.Run("empty snapshot encodes as an empty list", func(t *testing.T) {
		data, err := EncodeToBytes(JSONCodec{}, nil)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))

		got, err := JSONCodec{}.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty yaml file decodes to no records", func(t *testing.T) {
		got, err := YAMLCodec{}.Decode(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("csv header is checked", func(t *testing.T) {
		_, err := CSVCodec{}.Decode(strings.NewReader("a,b,c,d,e,f\n1,x,HR,1,Employee,0\n"))
		assert.Error(t, err)
	})

	t.Run("csv bad number names the row", func(t *testing.T) {
		in := "id,name,department,salary,kind,factor\n1,Alice,HR,lots,Employee,0\n"
		_, err := CSVCodec{}.Decode(strings.NewReader(in))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("csv empty factor reads as zero", func(t *testing.T) {
		in := "id,name,department,salary,kind,factor\n1,Alice,HR,5000,Employee,\n"
		got, err := CSVCodec{}.Decode(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, sampleRecords[:1], got)
	})

	t.Run("xlsx garbage is rejected", func(t *testing.T) {
		_, err := XLSXCodec{}.Decode(strings.NewReader("not a workbook"))
		assert.Error(t, err)
	})

	t.Run("codec for path", func(t *testing.T) {
		c, err := CodecForPath("/tmp/Company.YAML")
		require.NoError(t, err)
		assert.Equal(t, "yaml", c.Name())
	})
}
