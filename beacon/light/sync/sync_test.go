// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package sync

import (
	"testing"
)

func TestChunkifyRange(t *testing.T) {
	tests := []struct {
		from, to uint64
		size     int
		want     [][2]uint64
	}{
		{0, 0, 128, nil},
		{5, 3, 128, nil},
		{0, 5, 128, [][2]uint64{{0, 5}}},
		{0, 256, 128, [][2]uint64{{0, 128}, {128, 256}}},
		{0, 300, 128, [][2]uint64{{0, 128}, {128, 256}, {256, 300}}},
	}
	for _, tt := range tests {
		got := chunkifyRange(tt.from, tt.to, tt.size)
		if len(got) != len(tt.want) {
			t.Fatalf("chunkifyRange(%d,%d,%d) = %v, want %v", tt.from, tt.to, tt.size, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("chunkifyRange(%d,%d,%d)[%d] = %v, want %v", tt.from, tt.to, tt.size, i, got[i], tt.want[i])
			}
		}
	}
}
