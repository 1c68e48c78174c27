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

package guard

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConsoleConfirmer asks the confirmation gates on a console.
type ConsoleConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleConfirmer creates a ConsoleConfirmer over the given streams.
func NewConsoleConfirmer(in io.Reader, out io.Writer) *ConsoleConfirmer {
	return &ConsoleConfirmer{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// ConfirmIntent asks the yes/no gate. Only "yes" or "y" proceeds,
// case-insensitive.
func (c *ConsoleConfirmer) ConfirmIntent(database string, collections int) (bool, error) {
	fmt.Fprintln(c.out, strings.Repeat("=", 60))
	fmt.Fprintln(c.out, "CRITICAL WARNING: DATABASE DELETION")
	fmt.Fprintln(c.out, strings.Repeat("=", 60))
	fmt.Fprintln(c.out, "This operation will PERMANENTLY DELETE:")
	fmt.Fprintf(c.out, "  - database:    %s\n", database)
	fmt.Fprintf(c.out, "  - collections: %d\n", collections)
	fmt.Fprintln(c.out, "  - all data and indexes; this CANNOT be undone")
	fmt.Fprintln(c.out, strings.Repeat("=", 60))

	fmt.Fprintf(c.out, "Are you absolutely sure you want to drop database %q? (yes/no): ", database)
	answer, err := c.readLine()
	if err != nil {
		return false, err
	}

	answer = strings.ToLower(answer)
	return answer == "yes" || answer == "y", nil
}

// ConfirmName asks the operator to re-type the database name.
func (c *ConsoleConfirmer) ConfirmName(database string) (string, error) {
	fmt.Fprintf(c.out, "Type the exact database name %q to confirm deletion: ", database)
	return c.readLine()
}

// ConfirmToken asks for the literal DELETE token.
func (c *ConsoleConfirmer) ConfirmToken(database string) (string, error) {
	fmt.Fprintf(c.out, "Last chance! Type '%s' to permanently drop %q: ", DeleteToken, database)
	return c.readLine()
}

func (c *ConsoleConfirmer) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read confirmation: %w", err)
	}
	return strings.TrimSpace(line), nil
}
