/*
 * dump.go, part of gopes.
 *
 *
 * Copyright 2025 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package irc

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

//The DWI dump is a zstd-compressed structured text container, one file per
//macro-step and direction: first arbitrary key=value header lines, then a
//"** dim" sentinel, then one block per sample ("# energy" line, coordinate
//line, gradient line, the Hessian rows, and a "*" terminator). It is a
//diagnostic artifact for offline inspection and is never read back during
//a run.

//DumpW writes DWI samples to a compressed container.
type DumpW struct {
	f         *os.File
	h         io.WriteCloser
	dim       int
	filename  string
	writeable bool
}

//NewDumpWriter creates the container file and writes the header. Only the
//first map given is used.
func NewDumpWriter(name string, dim int, header map[string]string) (*DumpW, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	h, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		f.Close()
		return nil, Error{"Can't set up the compressor: " + err.Error(), -1, []string{"NewDumpWriter"}}
	}
	D := &DumpW{f: f, h: h, dim: dim, filename: name, writeable: true}
	for k, v := range header {
		fmt.Fprintf(D.h, "%s=%v\n", k, v)
	}
	fmt.Fprintf(D.h, "** %d\n", dim)
	return D, nil
}

//WSample writes the next sample block to the container.
func (D *DumpW) WSample(coords []float64, energy float64, grad []float64, hess *mat.SymDense) error {
	if !D.writeable {
		return Error{"Attempted to write to a closed dump: " + D.filename, -1, []string{"WSample"}}
	}
	if len(coords) != D.dim || len(grad) != D.dim || hess.SymmetricDim() != D.dim {
		return Error{fmt.Sprintf("Mismatched dimensions in sample for %s", D.filename), -1, []string{"WSample"}}
	}
	fmt.Fprintf(D.h, "# %.12e\n", energy)
	writeVec(D.h, coords)
	writeVec(D.h, grad)
	row := make([]float64, D.dim)
	for i := 0; i < D.dim; i++ {
		for j := 0; j < D.dim; j++ {
			row[j] = hess.At(i, j)
		}
		writeVec(D.h, row)
	}
	fmt.Fprintf(D.h, "*\n")
	return nil
}

//Close flushes and closes the container. The object can not be used after
//this call.
func (D *DumpW) Close() {
	if D == nil {
		return
	}
	if D.writeable {
		D.h.Close()
		D.f.Close()
	}
	D.writeable = false
}

func writeVec(w io.Writer, v []float64) {
	for i, x := range v {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprintf(w, "%.12e", x)
	}
	fmt.Fprint(w, "\n")
}

//Dump writes all the samples currently stored in the interpolator to the
//named container file, with the given header.
func (D *DWI) Dump(name string, header map[string]string) error {
	w, err := NewDumpWriter(name, D.dim, header)
	if err != nil {
		return errDecorate(err, "DWI.Dump")
	}
	defer w.Close()
	for i := range D.samples {
		s := &D.samples[i]
		if err := w.WSample(s.coords, s.energy, s.grad, s.hess); err != nil {
			return errDecorate(err, "DWI.Dump")
		}
	}
	return nil
}
