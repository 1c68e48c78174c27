/*
 * Copyright 2023 The MongoSnap Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mongo

import (
	"fmt"
	"time"
)

// Below are the default values for the connection settings.
const (
	DefaultConnectionTimeout = "5s"
	DefaultPingTimeout       = "5s"
)

// Config is the configuration for creating a Client instance.
type Config struct {
	ConnectionURI     string
	ConnectionTimeout string
	PingTimeout       string
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.ConnectionTimeout); err != nil {
		return fmt.Errorf("invalid connection timeout %q: %w", c.ConnectionTimeout, err)
	}

	if _, err := time.ParseDuration(c.PingTimeout); err != nil {
		return fmt.Errorf("invalid ping timeout %q: %w", c.PingTimeout, err)
	}

	return nil
}

func (c *Config) ensureDefaultValue() *Config {
	if c.ConnectionTimeout == "" {
		c.ConnectionTimeout = DefaultConnectionTimeout
	}
	if c.PingTimeout == "" {
		c.PingTimeout = DefaultPingTimeout
	}
	return c
}

func (c *Config) parseConnectionTimeout() time.Duration {
	result, _ := time.ParseDuration(c.ConnectionTimeout)
	return result
}

func (c *Config) parsePingTimeout() time.Duration {
	result, _ := time.ParseDuration(c.PingTimeout)
	return result
}
