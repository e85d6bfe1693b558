// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for events
const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	blockNumber INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	address BLOB NOT NULL,
	name TEXT NOT NULL,
	attrs TEXT NOT NULL,
	PRIMARY KEY (blockNumber, eventIndex)
);

CREATE INDEX IF NOT EXISTS eventAddressIndex ON event(address, name);
CREATE INDEX IF NOT EXISTS eventNameIndex ON event(name);
CREATE INDEX IF NOT EXISTS eventTimeIndex ON event(blockTime);
`
