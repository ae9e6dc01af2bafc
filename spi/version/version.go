/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements. See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package version

import (
	"fmt"
	"github.com/go-errors/errors"
	"regexp"
	"strconv"
)

var cassandraVersionRegex = regexp.MustCompile(`^([0-9]+)\.([0-9]+)(\.([0-9]+))?`)

const (
	// CASSANDRA_30_VERSION is the first release without the legacy
	// system.schema_* tables
	CASSANDRA_30_VERSION CassandraVersion = 30000
)

var (
	BinName    = "cql-workload"
	Version    = "0.1.0"
	CommitHash = "unknown"
	Branch     = "unknown"
)

// CassandraVersion represents the parsed and comparable
// release version of a Cassandra node
type CassandraVersion uint

// Major returns the major version
func (cv CassandraVersion) Major() uint {
	return uint(cv) / 10000
}

// Minor returns the minor version
func (cv CassandraVersion) Minor() uint {
	return (uint(cv) / 100) % 100
}

// Patch returns the patch version
func (cv CassandraVersion) Patch() uint {
	return uint(cv) % 100
}

// String returns the string representation of the Cassandra
// release version as in >>major.minor.patch<<
func (cv CassandraVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", cv.Major(), cv.Minor(), cv.Patch())
}

// Compare returns a negative value if the current version
// is lower than other, returns 0 if the versions match,
// otherwise it returns a value larger than 0.
func (cv CassandraVersion) Compare(other CassandraVersion) int {
	if cv < other {
		return -1
	}
	if cv > other {
		return 1
	}
	return 0
}

// HasLegacySchemaTables returns true if the node still serves the
// pre 3.0 schema tables
func (cv CassandraVersion) HasLegacySchemaTables() bool {
	return cv.Compare(CASSANDRA_30_VERSION) < 0
}

// ParseCassandraVersion parses the release_version reported by
// system.local, like 3.11.4 or 4.1-SNAPSHOT
func ParseCassandraVersion(version string) (CassandraVersion, error) {
	matches := cassandraVersionRegex.FindStringSubmatch(version)
	if len(matches) < 3 {
		return 0, errors.Errorf("failed to extract cassandra version from '%s'", version)
	}

	v, err := strconv.ParseInt(matches[1], 10, 32)
	if err != nil {
		return 0, err
	}
	major := uint(v)

	v, err = strconv.ParseInt(matches[2], 10, 32)
	if err != nil {
		return 0, err
	}
	minor := uint(v)

	patch := uint(0)
	if matches[4] != "" {
		v, err = strconv.ParseInt(matches[4], 10, 32)
		if err != nil {
			return 0, err
		}
		patch = uint(v)
	}

	return CassandraVersion((major * 10000) + (minor * 100) + patch), nil
}
