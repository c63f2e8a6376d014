// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package session implements the client- and server-side bootstrap: TCP
// connect/accept plus endpoint and handler wiring.
package session

import (
	"encoding/json"
	"os"
)

// ClientConfig is the client role's configuration, loadable from JSON
// with ParseJSONConfig.
type ClientConfig struct {
	Remote    string `json:"remote"`
	Name      string `json:"name"`
	RateLimit int    `json:"ratelimit"` // bytes/sec, 0 = unlimited
	Log       string `json:"log"`
	Quiet     bool   `json:"quiet"`
}

// ServerConfig is the server role's configuration.
type ServerConfig struct {
	Listen string `json:"listen"`
	OutDir string `json:"outdir"`
	Log    string `json:"log"`
	Quiet  bool   `json:"quiet"`
}

// ParseJSONConfig decodes a JSON config file into dst.
func ParseJSONConfig(dst interface{}, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(dst)
}
