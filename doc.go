/*
 * doc.go, part of gorelax.
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
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package relax is the main package of the gorelax library. It provides the data pipes
and the molecule, residue and spin containers used to analyse NMR relaxation data.


	**gorelax Capabilities**


    Keeps any number of named data pipes in a Context, one of them current.
	Each pipe has an analysis type, which determines the Analysis used
	for its calculations.

    Creates, deletes, selects and looks up spins by spin ID strings
	(#mol:res@spin). All unambiguous aliases of a spin are indexed.

    Reads and writes sequence and per-spin data files, plain or compressed
	with bzip2, gzip or zstd (package colio and seqio).

    Keeps interatomic containers between pairs of spins, such as magnetic
	dipole-dipole pairs. Containers refer to spins by ID, so they survive
	the deletion of a spin and are skipped afterwards.

    Runs calculations, grid searches and minimisations, including Monte
	Carlo simulations (packages minimise and montecarlo).

    Sets, reads and writes parameter values through the Analysis of each
	pipe (package value).

    Saves and loads the complete state (package state).

The analysis types themselves are in the analysis subdirectory. Importing one
registers it for its pipe type.*/
package relax
