// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tdrop

import (
	"encoding/hex"
	"encoding/json"
	"errors"
)

// decodeFixed decodes s, with or without 0x prefix, into exactly len(out) bytes.
func decodeFixed(s string, out []byte) error {
	switch len(s) {
	case len(out) * 2:
	case len(out)*2 + 2:
		if s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
			return errors.New("invalid prefix")
		}
		s = s[2:]
	default:
		return errors.New("invalid length")
	}
	_, err := hex.Decode(out, []byte(s))
	return err
}

func encodeFixed(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// unmarshalFixed decodes a JSON string holding a fixed size hex value.
func unmarshalFixed(data []byte, out []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return decodeFixed(s, out)
}
