package lfs

// TransferBasic is the name of the Git LFS basic transfer protocol.
const TransferBasic = "basic"
