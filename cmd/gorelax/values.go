/*
 * values.go, part of gorelax.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package main

import (
	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/value"
)

func setValues(R *Runner, a *valueSetArgs) error {
	if len(a.Vals) > 0 && len(a.Params) > 0 && len(a.Vals) != len(a.Params) && len(a.Vals) != 1 {
		return relax.NewError(relax.ConfigError, "value.set", "%d values given for %d parameters", len(a.Vals), len(a.Params))
	}
	return value.Set(R.C, value.SetOptions{Params: a.Params, Vals: a.Vals, Error: a.Error, SpinID: a.SpinID, Force: a.Force})
}

func writeValues(R *Runner, a *valueWriteArgs) error {
	return value.WriteFile(R.C, a.File, R.dir(a.Dir), a.compression(), a.Force, value.WriteOptions{Param: a.Param, Sep: a.Sep})
}

func displayValues(R *Runner, param string) error {
	return value.Write(R.C, R.Out, value.WriteOptions{Param: param})
}
