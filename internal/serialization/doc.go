// Package serialization provides the .ffnn format for saving and loading
// trained networks.
//
// The .ffnn format is a small binary container:
//
//	Format Structure:
//	  [64 bytes: fixed header]
//	    0x00  Magic "FFNN"         (4 bytes)
//	    0x04  Version              (uint32 LE)
//	    0x08  Flags                (uint32 LE)
//	    0x0C  Reserved             (4 bytes)
//	    0x10  Header size          (uint64 LE)
//	    0x18  Reserved             (8 bytes)
//	    0x20  SHA-256 checksum     (32 bytes, over everything after 0x40)
//	  [Header: JSON metadata]
//	  [Padding to 64-byte alignment]
//	  [Tensor data: float64 LE, row-major]
//
// Example usage:
//
//	err := serialization.WriteFile("model.ffnn", header, tensors)
//
//	header, tensors, err := serialization.ReadFile("model.ffnn")
//	w := tensors["hidden.0.weight"]
package serialization
