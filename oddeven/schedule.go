// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package oddeven

// Role is the part a rank plays in one round.
type Role uint8

const (
	// RoleNone marks a rank that sits the round out.
	RoleNone Role = iota
	// RoleLow keeps the smaller half of the merged pair.
	RoleLow
	// RoleHigh keeps the larger half of the merged pair.
	RoleHigh
)

func (r Role) String() string {
	switch r {
	case RoleLow:
		return "low"
	case RoleHigh:
		return "high"
	default:
		return "none"
	}
}

// NoPartner is the partner of an idle rank.
const NoPartner = -1

// Assignment is a rank's role and partner for one round.
type Assignment struct {
	Role    Role
	Partner int
}

// Active reports whether the rank exchanges with a partner this round.
func (a Assignment) Active() bool {
	return a.Role != RoleNone
}

var idle = Assignment{Role: RoleNone, Partner: NoPartner}

// Assign returns the role and partner of rank in round for a world of p
// ranks. Even rounds pair (0,1), (2,3), ...; odd rounds pair (1,2), (3,4),
// .... The lower rank of a pair is RoleLow. Edge ranks without a partner,
// ranks outside [0, p) and non-positive p yield an idle assignment.
func Assign(rank, round, p int) Assignment {
	if p <= 0 || rank < 0 || rank >= p {
		return idle
	}

	evenRound := round%2 == 0
	if (evenRound && rank%2 == 0) || (!evenRound && rank%2 == 1) {
		if partner := rank + 1; partner < p {
			return Assignment{Role: RoleLow, Partner: partner}
		}
		return idle
	}

	if partner := rank - 1; partner >= 0 {
		return Assignment{Role: RoleHigh, Partner: partner}
	}
	return idle
}

// Rounds returns the number of rounds that guarantees a sorted result for
// p ranks.
func Rounds(p int) int {
	return max(p, 0)
}

// Pairs lists the (low, high) rank pairs that exchange in round.
func Pairs(round, p int) [][2]int {
	var pairs [][2]int
	for rank := range max(p, 0) {
		if a := Assign(rank, round, p); a.Role == RoleLow {
			pairs = append(pairs, [2]int{rank, a.Partner})
		}
	}
	return pairs
}
