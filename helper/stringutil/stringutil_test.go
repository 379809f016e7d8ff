// Copyright 2019 Bull S.A.S. Atos Technologies - Bull, Rue Jean Jaures, B.P.68, 78340, Les Clayes-sous-Bois, France.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stringutil

import (
	"strings"
	"testing"

	"github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/require"
)

func TestUniqueName(t *testing.T) {
	t.Parallel()

	type args struct {
		prefix string
		suffix string
	}
	tests := []struct {
		name string
		args args
	}{
		{name: "TestWithPrefix", args: args{prefix: "bridge_", suffix: ""}},
		{name: "TestWithPrefixAndSuffix", args: args{prefix: "bridge_", suffix: ".py"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := UniqueName(tt.args.prefix, tt.args.suffix)
			require.True(t, strings.HasPrefix(n, tt.args.prefix))
			require.True(t, strings.HasSuffix(n, tt.args.suffix))
			require.Len(t, n, len(tt.args.prefix)+36+len(tt.args.suffix))
			require.NotEqual(t, n, UniqueName(tt.args.prefix, tt.args.suffix))
		})
	}
}

func TestShellQuote(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Empty", "", "''"},
		{"Simple", "squeue", "squeue"},
		{"Spaces", "/data/my cell/", "'/data/my cell/'"},
		{"Variable", "$HOME", `\$HOME`},
		{"Tilde", "~/x", `\~/x`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ShellQuote(tt.in))
			words, err := shellquote.Split(ShellQuote(tt.in))
			require.NoError(t, err)
			require.Equal(t, []string{tt.in}, words)
		})
	}
	require.Equal(t, "python3 '/tmp/a b.py'", ShellJoin("python3", "/tmp/a b.py"))
	words, err := shellquote.Split(ShellJoin("python3", "it's", "a;b"))
	require.NoError(t, err)
	require.Equal(t, []string{"python3", "it's", "a;b"}, words)
}
