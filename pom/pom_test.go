package pom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in      string
		want    Coordinate
		wantErr bool
	}{
		{in: "com.google.guava:guava:33.0.0-jre", want: Coordinate{GroupID: "com.google.guava", ArtifactID: "guava", Version: "33.0.0-jre"}},
		{in: "org.lwjgl:lwjgl:natives-linux:3.3.3", want: Coordinate{GroupID: "org.lwjgl", ArtifactID: "lwjgl", Classifier: "natives-linux", Version: "3.3.3"}},
		{in: "guava", wantErr: true},
		{in: "a::1", wantErr: true},
		{in: "a:b:c:d:e", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCoordinate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadCoordinate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestJarPath(t *testing.T) {
	c := Coordinate{GroupID: "org.lwjgl", ArtifactID: "lwjgl", Classifier: "natives-linux", Version: "3.3.3"}
	assert.Equal(t, filepath.Join("/repo", "org", "lwjgl", "lwjgl", "3.3.3", "lwjgl-3.3.3-natives-linux.jar"), c.JarPath("/repo"))
	assert.Equal(t, filepath.Join("/repo", "org", "lwjgl", "lwjgl", "3.3.3", "lwjgl-3.3.3.pom"), c.POMPath("/repo"))
}

type artifact struct {
	coord string
	pom   string
	noJar bool
}

func repository(t *testing.T, artifacts ...artifact) string {
	t.Helper()
	root := t.TempDir()
	for _, a := range artifacts {
		c, err := ParseCoordinate(a.coord)
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Dir(c.JarPath(root)), 0o755))
		if !a.noJar {
			require.NoError(t, os.WriteFile(c.JarPath(root), nil, 0o644))
		}
		if a.pom != "" {
			require.NoError(t, os.WriteFile(c.POMPath(root), []byte(a.pom), 0o644))
		}
	}
	return root
}

func TestLocalJars(t *testing.T) {
	root := repository(t,
		artifact{coord: "com.example:parent:1", noJar: true, pom: `<project>
  <groupId>com.example</groupId><artifactId>parent</artifactId><version>1</version>
  <properties><lib.version>2.0</lib.version></properties>
  <dependencyManagement><dependencies>
    <dependency><groupId>com.example</groupId><artifactId>managed</artifactId><version>3.0</version></dependency>
  </dependencies></dependencyManagement>
</project>`},
		artifact{coord: "com.example:app:1.0", pom: `<project>
  <parent><groupId>com.example</groupId><artifactId>parent</artifactId><version>1</version></parent>
  <artifactId>app</artifactId><version>1.0</version>
  <dependencies>
    <dependency><groupId>${project.groupId}</groupId><artifactId>lib</artifactId><version>${lib.version}</version>
      <exclusions><exclusion><groupId>com.example</groupId><artifactId>gone</artifactId></exclusion></exclusions>
    </dependency>
    <dependency><groupId>com.example</groupId><artifactId>managed</artifactId></dependency>
    <dependency><groupId>junit</groupId><artifactId>junit</artifactId><version>4.13</version><scope>test</scope></dependency>
    <dependency><groupId>com.example</groupId><artifactId>opt</artifactId><version>1</version><optional>true</optional></dependency>
  </dependencies>
</project>`},
		artifact{coord: "com.example:lib:2.0", pom: `<project>
  <groupId>com.example</groupId><artifactId>lib</artifactId><version>2.0</version>
  <dependencies>
    <dependency><groupId>com.example</groupId><artifactId>managed</artifactId><version>9.9</version></dependency>
    <dependency><groupId>com.example</groupId><artifactId>gone</artifactId><version>1.0</version></dependency>
    <dependency><groupId>com.example</groupId><artifactId>deep</artifactId><version>1.0</version></dependency>
  </dependencies>
</project>`},
		artifact{coord: "com.example:managed:3.0"},
		artifact{coord: "com.example:managed:9.9"},
		artifact{coord: "com.example:gone:1.0"},
		artifact{coord: "com.example:opt:1"},
		artifact{coord: "com.example:deep:1.0", noJar: true},
	)

	app, err := ParseCoordinate("com.example:app:1.0")
	require.NoError(t, err)
	jars, err := NewLocal(root).Jars(app)

	assert.Equal(t, []string{
		app.JarPath(root),
		Coordinate{GroupID: "com.example", ArtifactID: "lib", Version: "2.0"}.JarPath(root),
		Coordinate{GroupID: "com.example", ArtifactID: "managed", Version: "3.0"}.JarPath(root),
	}, jars)
	require.Error(t, err, "deep has no jar")
	assert.Contains(t, err.Error(), "com.example:deep:1.0")
}

func TestLocalJarsWithoutPOM(t *testing.T) {
	root := repository(t, artifact{coord: "org.example:solo:1"})
	solo, err := ParseCoordinate("org.example:solo:1")
	require.NoError(t, err)

	jars, err := NewLocal(root).Jars(solo, solo)
	require.NoError(t, err)
	assert.Equal(t, []string{solo.JarPath(root)}, jars)
}
