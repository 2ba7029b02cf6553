// Package serialization saves and restores the trainable matrices of a
// params.Store.
//
// The checkpoint format is a small binary container:
//
//	Format Structure:
//	  [0x00: 4 bytes  Magic "EDGS"]
//	  [0x04: 4 bytes  Version (uint32 LE)]
//	  [0x08: 4 bytes  Flags (uint32 LE)]
//	  [0x0C: 4 bytes  Reserved]
//	  [0x10: 8 bytes  Header size (uint64 LE)]
//	  [0x18: 8 bytes  Data size (uint64 LE)]
//	  [0x20: 32 bytes SHA-256 of the data section]
//	  [0x40: Header: JSON metadata]
//	  [Matrix data: float64 LE, row-major, 64-byte aligned]
//
// Every parameters entry and every lookup entry is stored under its store
// name (lookup entries as "name.row") together with its handle, so Restore
// can check that a checkpoint belongs to a store built the same way.
//
// Example usage:
//
//	if err := serialization.Save("xor.edgs", store, map[string]string{"epochs": "2000"}); err != nil {
//	    return err
//	}
//
//	// Later, on a store built by the same code:
//	if err := serialization.Load("xor.edgs", store); err != nil {
//	    return err
//	}
//
// WriteSafeTensors exports the same matrices in the SafeTensors format for
// use by other frameworks.
package serialization
