/*
 * doc.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

/*Package dset implements the standard on-disk dataset for dynamical
observations: a compressed, append-only, line-oriented table.

A dataset file starts with an optional metadata header of key=value lines,
terminated by a line

	** <nbodies> <0|1>

giving the number of tracked bodies per observation and whether rotation
columns are present. Each observation is then one block of nbodies value
lines ("displacement" or "displacement rotation"), closed by a trailer line

	* <origin index> <elapsed time>

The whole stream is compressed; the compressor is chosen from the last
letter of the file name, the same convention the trajectory formats use:
'z' selects gzip, 'r' flate, 'l' lzw and anything else zstd. Compression
matters here: datasets grow by one block per scheduling decision and are
expected to outlive the memory of the producing process.

Writers append only. Flush pushes all buffered blocks through the
compressor and syncs the file, so a crash loses at most the blocks written
since the last Flush; everything before it remains a valid, readable
dataset.
*/
package dset
