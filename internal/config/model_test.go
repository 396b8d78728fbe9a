package config

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModel_Validate(t *testing.T) {
	tests := []struct {
		name    string
		jobs    []*Job
		wantErr string
	}{
		{
			name: "valid graph",
			jobs: []*Job{
				{Kind: "sum", Name: "a"},
				{Kind: "sum", Name: "b", Priority: "high", DependsOn: []string{"a"}},
			},
		},
		{
			name:    "missing name",
			jobs:    []*Job{{Kind: "sum"}},
			wantErr: "has no name",
		},
		{
			name:    "missing kind",
			jobs:    []*Job{{Name: "a"}},
			wantErr: "has no kind",
		},
		{
			name:    "duplicate name",
			jobs:    []*Job{{Kind: "sum", Name: "a"}, {Kind: "print", Name: "a"}},
			wantErr: "duplicate job name 'a'",
		},
		{
			name:    "unknown priority",
			jobs:    []*Job{{Kind: "sum", Name: "a", Priority: "urgent"}},
			wantErr: "urgent",
		},
		{
			name:    "unknown dependency",
			jobs:    []*Job{{Kind: "sum", Name: "a", DependsOn: []string{"ghost"}}},
			wantErr: "unknown job 'ghost'",
		},
		{
			name: "repeated dependency",
			jobs: []*Job{
				{Kind: "sum", Name: "a"},
				{Kind: "sum", Name: "b", DependsOn: []string{"a", "a"}},
			},
			wantErr: "more than once",
		},
		{
			name:    "self dependency",
			jobs:    []*Job{{Kind: "sum", Name: "a", DependsOn: []string{"a"}}},
			wantErr: "depends on itself",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := (&Model{Jobs: tc.jobs}).Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestModel_MergeAndLookup(t *testing.T) {
	m := &Model{Jobs: []*Job{{Kind: "sum", Name: "b"}}}
	m.Merge(&Model{Jobs: []*Job{{Kind: "sum", Name: "a"}}})
	m.Merge(nil)

	require.Equal(t, []string{"a", "b"}, m.Names())
	j, ok := m.Lookup("a")
	require.True(t, ok)
	require.Equal(t, "sum", j.Kind)
	_, ok = m.Lookup("c")
	require.False(t, ok)
}

type staticLoader struct {
	model *Model
	err   error
}

func (s *staticLoader) Extensions() []string { return []string{".static"} }

func (s *staticLoader) Load(context.Context, ...string) (*Model, error) {
	return s.model, s.err
}

func TestMultiLoader(t *testing.T) {
	t.Run("merges in loader order and validates", func(t *testing.T) {
		ml := NewMultiLoader(
			&staticLoader{model: &Model{Jobs: []*Job{{Kind: "sum", Name: "a"}}}},
			&staticLoader{model: &Model{Jobs: []*Job{{Kind: "sum", Name: "b", DependsOn: []string{"a"}}}}},
		)
		m, err := ml.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, m.Jobs, 2)
		require.Equal(t, "a", m.Jobs[0].Name)
		require.Equal(t, []string{".static", ".static"}, ml.Extensions())
	})

	t.Run("cross-format reference errors are reported", func(t *testing.T) {
		ml := NewMultiLoader(
			&staticLoader{model: &Model{Jobs: []*Job{{Kind: "sum", Name: "b", DependsOn: []string{"a"}}}}},
		)
		_, err := ml.Load(context.Background())
		require.ErrorContains(t, err, "unknown job 'a'")
	})

	t.Run("loader error aborts", func(t *testing.T) {
		ml := NewMultiLoader(&staticLoader{err: os.ErrPermission})
		_, err := ml.Load(context.Background())
		require.ErrorIs(t, err, os.ErrPermission)
	})
}
