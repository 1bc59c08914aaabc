package particles

// DefaultVertexSource places a_position.xy (pixels, bottom-left origin) and
// uses a_position.z as the point size.
const DefaultVertexSource = `#version 330 core
in vec3 a_position;

uniform vec2 u_resolution;

void main() {
    gl_Position = vec4((a_position.xy / u_resolution) * 2.0 - 1.0, 0.0, 1.0);
    gl_PointSize = a_position.z;
}
`

// DefaultFragmentSource samples the texture across the sprite once it has
// loaded and draws flat white before that.
const DefaultFragmentSource = `#version 330 core
uniform sampler2D u_texture;
uniform float u_hasTexture;

out vec4 fragColor;

void main() {
    if (u_hasTexture > 0.5) {
        fragColor = texture(u_texture, gl_PointCoord);
    } else {
        fragColor = vec4(1.0);
    }
}
`
