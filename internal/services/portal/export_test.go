// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package portal

// SetVerifyNo replaces the VerifyNo generator.
func (c *Client) SetVerifyNo(fn func() string) {
	c.newVerifyNo = fn
}
