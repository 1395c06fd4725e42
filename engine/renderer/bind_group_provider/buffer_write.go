package bind_group_provider

// BufferWrite describes one queued write into a provider's buffer at a byte offset.
// Writes are applied in slice order by Renderer.WriteBuffers.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
