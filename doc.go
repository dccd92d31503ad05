/*
Package sparse implements a sparse byte-addressable store: a virtual
address space in which most addresses hold no value and only finite,
non-contiguous runs of bytes are materialized.

Data Structure Documentation

Memory

A Memory owns an ordered list of blocks plus an optional bound window
which clips all content. Blocks are address-ascending, non-overlapping and
never touch: between two consecutive blocks there is always a gap of at
least one empty address. Operations that would produce touching blocks
merge them instead.

    Address space:
    ....ggg+--------+gggg+---+ggggggggg+------+ggg....
           | block1 |    |b2 |         |  b3  |
           +--------+    +---+         +------+
           start            ^gap                endex

Every mutating operation is built from two splice primitives, erase and
place, which are the only functions that change the shape of the block
list, and each mutating operation has a paired backup/restore counterpart
which captures the minimal state needed to undo it. The store keeps no
undo history of its own; callers stack backups and restore them in reverse
order.

Dump

The dump serialisation (Writer, Reader) stores a Memory's runs as a series
of dump blocks followed by an index and a footer.

    Dump layout:
    +---------+---------+---------+-------------+-------------+
    | block 1 |   ...   | block n | block index | dump footer |
    +---------+---------+---------+-------------+-------------+

    Block index:
    +------------------------+-------------------+--------------------------------+--------------------------+-------+
    | max endex 1 (varint)   |  offset 1 (varint)| max endex 2 (varint,delta)     |  offset 2 (varint,delta) |  ...  |
    +------------------------+-------------------+--------------------------------+--------------------------+-------+

    Dump footer:
    +------------------------+------------------+
    | index offset (8 bytes) |  magic (8 bytes) |
    +------------------------+------------------+

Block

A dump block comprises a series of runs, followed by an xxhash64 checksum
of the stored payload and a single-byte compression type indicator.

    Block layout:
    +-------+---------+-------+---------------------+---------------------------+
    | run 1 |   ...   | run n | checksum (8 bytes)  | compression type (1-byte) |
    +-------+---------+-------+---------------------+---------------------------+

Run

A run is an (address, bytes) pair. The first run address of a block is
stored as a full signed varint while subsequent addresses are
delta-encoded against the end of the previous run.

    +------------------+--------------------+----------------+------------------------+-----+
    | addr 1 (varint)  | length 1 (varint)  | data 1 (bytes) | addr 2 (varint,delta)  | ... |
    +------------------+--------------------+----------------+------------------------+-----+
*/
package sparse
