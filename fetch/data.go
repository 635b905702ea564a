/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package fetch

import (
	"context"
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/dnrt/dnrt/media"
	"github.com/dnrt/dnrt/rterr"
	"github.com/dnrt/dnrt/specifier"
)

// DataFetcher decodes data: URLs in place. No permission check, no cache;
// the final specifier always equals the input (§4.C).
type DataFetcher struct{}

func NewDataFetcher() *DataFetcher { return &DataFetcher{} }

func (f *DataFetcher) Scheme() string { return "data" }

func (f *DataFetcher) Fetch(_ context.Context, s specifier.Specifier, _ CacheMode) (Result, error) {
	raw := s.String()
	body := strings.TrimPrefix(raw, "data:")
	comma := strings.IndexByte(body, ',')
	if comma < 0 {
		return Result{}, rterr.New(rterr.InvalidData, "malformed data: URL")
	}
	meta, payload := body[:comma], body[comma+1:]

	isBase64 := strings.HasSuffix(meta, ";base64")
	contentType := strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		contentType = "text/plain;charset=US-ASCII"
	}

	var data []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return Result{}, rterr.Wrap(rterr.InvalidData, err, "decode data: URL base64 payload")
		}
		data = decoded
	} else {
		unescaped, err := url.QueryUnescape(payload)
		if err != nil {
			return Result{}, rterr.Wrap(rterr.InvalidData, err, "decode data: URL percent-encoded payload")
		}
		data = []byte(unescaped)
	}

	return Result{
		Specifier: s,
		Bytes:     data,
		MediaType: media.Detect("", contentType),
		Headers:   map[string]string{"content-type": contentType},
	}, nil
}
